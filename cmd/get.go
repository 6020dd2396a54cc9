package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/store"
)

// NewGetCmd creates the get subcommand.
func NewGetCmd(io SiteIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "get <collection> <id>",
		Short:        "Print one stored entry as JSON",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}
			if _, ok := s.reg.Get(collection); !ok {
				return fmt.Errorf("unknown collection %q", collection)
			}

			st, err := s.openStore(io)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			e, err := st.Get(cmd.Context(), collection, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("entry %s/%s not found; run 'sitec sync' first", collection, id)
				}
				return fmt.Errorf("get %s/%s: %w", collection, id, err)
			}
			return encodeJSON(cmd.OutOrStdout(), e)
		},
	}

	addSiteFlags(cmd)

	return cmd
}
