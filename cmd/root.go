// Package cmd implements the sitec CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root sitec command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithIO(newDefaultSiteIO())
}

// newRootCmdWithIO creates the root command with every subcommand sharing io.
func newRootCmdWithIO(io SiteIO) *cobra.Command {
	root := &cobra.Command{
		Use:           "sitec",
		Short:         "sitec - validate and sync typed site content collections",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.AddCommand(NewCheckCmd(io))
	root.AddCommand(NewSyncCmd(io))
	root.AddCommand(NewListCmd(io))
	root.AddCommand(NewGetCmd(io))
	root.AddCommand(NewCollectionsCmd(io))
	root.AddCommand(NewStatusCmd(io))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
