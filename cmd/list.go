package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/content"
)

// NewListCmd creates the list subcommand.
func NewListCmd(io SiteIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list <collection>",
		Short:        "List the stored entries of a collection",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			name := args[0]

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}
			if _, ok := s.reg.Get(name); !ok {
				return fmt.Errorf("unknown collection %q", name)
			}

			st, err := s.openStore(io)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			entries, err := st.List(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("list %s: %w", name, err)
			}

			if jsonMode {
				if entries == nil {
					entries = []content.Entry{}
				}
				return encodeJSON(cmd.OutOrStdout(), entries)
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sanitizeText(e.ID), sanitizeText(entryLabel(e)))
			}
			return nil
		},
	}

	addSiteFlags(cmd)
	cmd.Flags().Bool("json", false, "output entries as JSON array")

	return cmd
}

// entryLabel returns the title or name of e, falling back to its source path.
func entryLabel(e content.Entry) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := e.Data[key].(string); ok && s != "" {
			return s
		}
	}
	return e.FilePath
}
