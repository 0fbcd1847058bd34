package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List available correction commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFromCommand(cmd)
		fmt.Fprintln(cmd.OutOrStdout(), app.Service.GetAvailableCommands())
		return nil
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Execute a correction command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appFromCommand(cmd)
		fmt.Fprintln(cmd.OutOrStdout(), app.Service.ExecuteCorrection(cmd.Context(), args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(execCmd)
}
