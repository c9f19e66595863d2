package domain

import "errors"

// ErrDialogNotFound is returned when begin or replace references a dialog id
// that is not registered. This is a programmer error and is never retried.
var ErrDialogNotFound = errors.New("dialog not found")

// ErrRecordNotFound is returned by a StateStore when no record exists for a
// storage key.
var ErrRecordNotFound = errors.New("state record not found")

// ErrPropertyNotFound is returned when a property is read without a factory
// and no value has been stored. Used where "this must already exist" should
// fail loudly.
var ErrPropertyNotFound = errors.New("state property not found")

// ErrScopeIdentityUnavailable is returned when the incoming activity lacks
// the identity (conversation or user id) a state scope keys on. The channel
// not supplying it is a hard failure, never a silent default.
var ErrScopeIdentityUnavailable = errors.New("scope identity unavailable")

// ErrNotRecognized is the expected, recoverable failure of a prompt
// recognizer. It drives the retry loop and never surfaces as a system error.
var ErrNotRecognized = errors.New("input not recognized")
