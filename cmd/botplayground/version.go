package main

import (
	"fmt"

	"github.com/spf13/cobra"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botplayground",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("botplayground version %s\n", botplayground.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
