package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/sitecontent/internal/schema"
)

// CollectionJSON describes one registered collection.
type CollectionJSON struct {
	Name   string         `json:"name"`
	Loader string         `json:"loader"`
	Target string         `json:"target"`
	Fields []schema.Field `json:"fields"`
}

// NewCollectionsCmd creates the collections subcommand.
func NewCollectionsCmd(io SiteIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "collections",
		Short:        "Describe the declared collections, their loaders and schemas",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")

			s, err := loadSite(cmd, io)
			if err != nil {
				return err
			}

			out := make([]CollectionJSON, 0, len(s.reg.Names()))
			for _, name := range s.reg.Names() {
				c, _ := s.reg.Get(name)
				out = append(out, CollectionJSON{
					Name:   name,
					Loader: c.Loader.Kind(),
					Target: c.Loader.Target(),
					Fields: c.Schema.Fields,
				})
			}

			if jsonMode {
				return encodeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			for _, c := range out {
				fmt.Fprintf(w, "%s (%s %s)\n", c.Name, c.Loader, c.Target)
				for _, f := range c.Fields {
					fmt.Fprintf(w, "  %s\n", describeField(f))
				}
			}
			return nil
		},
	}

	addSiteFlags(cmd)
	cmd.Flags().Bool("json", false, "output collections as JSON array")

	return cmd
}

// describeField renders f as "name kind [required] [detail]".
func describeField(f schema.Field) string {
	parts := []string{f.Name, string(f.Kind)}
	if f.Required {
		parts = append(parts, "required")
	}
	switch f.Kind {
	case schema.KindEnum:
		parts = append(parts, "("+strings.Join(f.Values, " | ")+")")
	case schema.KindReferenceArray:
		parts = append(parts, "-> "+f.Collection)
	}
	return strings.Join(parts, " ")
}
