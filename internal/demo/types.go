// Package demo assembles the showcase hotel bot: a looping main menu that
// dispatches to a card gallery, a state example, and a dinner reservation
// flow, with a greeting that captures the guest's name on first contact.
package demo

import (
	"fmt"
	"strings"
)

// Dialog ids registered by NewBot.
const (
	RootDialogID        = "demoRoot"
	MainMenuDialogID    = "mainDialog"
	GreetingDialogID    = "greetingDialog"
	CardsDialogID       = "cardsExampleDialog"
	StateDialogID       = "stateExampleDialog"
	ReservationDialogID = "reservationDialog"
)

// userInfoProperty is the user-scope property holding UserInfo.
const userInfoProperty = "userInfo"

// GuestInfo is what the bot has learned about the guest.
type GuestInfo struct {
	Name   string `json:"name,omitempty"`
	Rating string `json:"rating,omitempty"`
}

// Reservation is the dinner reservation collected by the reservation flow.
type Reservation struct {
	Size     int    `json:"size"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

// UserInfo is the bot's per-user state across conversations.
type UserInfo struct {
	Guest       GuestInfo    `json:"guest"`
	Reservation *Reservation `json:"reservation,omitempty"`
}

// normalizeChoice folds user input for menu matching.
func normalizeChoice(v any) string {
	return strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
}
