package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/store"
)

// StatusJSON is the JSON output of the status command.
type StatusJSON struct {
	Synced      bool           `json:"synced"`
	SyncID      string         `json:"syncId,omitempty"`
	CompletedAt string         `json:"completedAt,omitempty"`
	Entries     int            `json:"entries"`
	Errors      int            `json:"errors"`
	Collections map[string]int `json:"collections"`
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd(io SiteIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the last completed sync and stored entry counts",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			ctx := cmd.Context()

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}
			st, err := s.openStore(io)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			status := StatusJSON{Collections: make(map[string]int)}
			rec, err := st.LastSync(ctx)
			switch {
			case err == nil:
				status.Synced = true
				status.SyncID = rec.ID
				status.CompletedAt = rec.CompletedAt.UTC().Format(time.RFC3339)
				status.Entries = rec.Entries
				status.Errors = rec.Errors
			case errors.Is(err, store.ErrNotFound):
			default:
				return fmt.Errorf("read last sync: %w", err)
			}
			for _, name := range s.reg.Names() {
				entries, err := st.List(ctx, name)
				if err != nil {
					return fmt.Errorf("list %s: %w", name, err)
				}
				status.Collections[name] = len(entries)
			}

			if jsonMode {
				return encodeJSON(cmd.OutOrStdout(), status)
			}
			w := cmd.OutOrStdout()
			if !status.Synced {
				fmt.Fprintln(w, "no sync recorded")
			} else {
				fmt.Fprintf(w, "last sync %s at %s: %d entries, %d errors\n",
					status.SyncID, status.CompletedAt, status.Entries, status.Errors)
			}
			for _, name := range s.reg.Names() {
				fmt.Fprintf(w, "%s: %d stored\n", name, status.Collections[name])
			}
			return nil
		},
	}

	addSiteFlags(cmd)
	cmd.Flags().Bool("json", false, "output status as JSON")

	return cmd
}
