package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/content"
	"github.com/eykd/sitecontent/internal/store"
)

// SyncSummaryJSON is the JSON output of the sync command.
type SyncSummaryJSON struct {
	SyncID      string                 `json:"syncId"`
	Collections []CollectionCountsJSON `json:"collections"`
	// Skipped lists collections whose loader failed; their stored entries are kept.
	Skipped     []string             `json:"skipped"`
	Diagnostics []content.Diagnostic `json:"diagnostics"`
}

// CollectionCountsJSON reports the store changes for one collection.
type CollectionCountsJSON struct {
	Collection string `json:"collection"`
	store.Counts
}

// NewSyncCmd creates the sync subcommand using UUIDv7 sync ids and the wall clock.
func NewSyncCmd(io SiteIO) *cobra.Command {
	return newSyncCmdWithClock(io, uuid.NewV7, time.Now)
}

// newSyncCmdWithClock creates the sync subcommand with injectable id and time sources.
func newSyncCmdWithClock(io SiteIO, newID func() (uuid.UUID, error), now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sync",
		Short:        "Validate content and write valid entries to the store",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			ctx := cmd.Context()

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}
			res, err := s.sync(ctx)
			if err != nil {
				return err
			}

			id, err := newID()
			if err != nil {
				return fmt.Errorf("generate sync id: %w", err)
			}
			syncID := id.String()

			st, err := s.openStore(io)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			summary := SyncSummaryJSON{
				SyncID:      syncID,
				Collections: []CollectionCountsJSON{},
				Skipped:     []string{},
				Diagnostics: nonNilDiagnostics(res.Diagnostics),
			}
			total := 0
			for _, name := range s.reg.Names() {
				if res.Failed[name] {
					s.logger.Warn().Str("collection", name).Msg("loader failed; keeping stored entries")
					summary.Skipped = append(summary.Skipped, name)
					continue
				}
				entries := res.Collection(name)
				counts, err := st.Replace(ctx, name, entries, syncID)
				if err != nil {
					return fmt.Errorf("store %s: %w", name, err)
				}
				total += len(entries)
				summary.Collections = append(summary.Collections, CollectionCountsJSON{Collection: name, Counts: counts})
			}

			errCount := 0
			for _, d := range res.Diagnostics {
				if d.Severity == content.SeverityError {
					errCount++
				}
			}
			rec := store.SyncRecord{ID: syncID, CompletedAt: now().UTC(), Entries: total, Errors: errCount}
			if err := st.RecordSync(ctx, rec); err != nil {
				return fmt.Errorf("record sync: %w", err)
			}
			s.logger.Info().Str("sync_id", syncID).Int("entries", total).Int("errors", errCount).Msg("sync complete")

			if jsonMode {
				if err := encodeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				writeDiagnostics(out, res.Diagnostics)
				for _, c := range summary.Collections {
					fmt.Fprintf(out, "%s: %d added, %d updated, %d unchanged, %d removed\n",
						c.Collection, c.Added, c.Updated, c.Unchanged, c.Removed)
				}
				for _, name := range summary.Skipped {
					fmt.Fprintf(out, "%s: skipped\n", name)
				}
				fmt.Fprintf(out, "sync %s: %d entries stored\n", syncID, total)
			}

			if res.HasErrors() {
				return errContentInvalid
			}
			return nil
		},
	}

	addSiteFlags(cmd)
	cmd.Flags().Bool("json", false, "output the sync summary as JSON")
	cmd.Flags().Bool("strict-refs", false, "report references to entries that do not exist")

	return cmd
}
