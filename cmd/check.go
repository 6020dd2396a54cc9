package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check subcommand.
func NewCheckCmd(io SiteIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Validate every content collection without writing the store",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}
			res, err := s.sync(cmd.Context())
			if err != nil {
				return err
			}

			if jsonMode {
				if err := encodeJSON(cmd.OutOrStdout(), nonNilDiagnostics(res.Diagnostics)); err != nil {
					return err
				}
			} else {
				writeDiagnostics(cmd.OutOrStdout(), res.Diagnostics)
				total := 0
				for _, name := range s.reg.Names() {
					total += len(res.Collection(name))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d valid entries in %d collections\n", total, len(s.reg.Names()))
			}

			if res.HasErrors() {
				return errContentInvalid
			}
			return nil
		},
	}

	addSiteFlags(cmd)
	cmd.Flags().Bool("json", false, "output diagnostics as JSON array")
	cmd.Flags().Bool("strict-refs", false, "report references to entries that do not exist")

	return cmd
}
