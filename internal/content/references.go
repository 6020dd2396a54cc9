package content

import (
	"fmt"

	"github.com/eykd/sitecontent/internal/schema"
)

// CheckReferences returns a CNT008 diagnostic for every reference in res
// whose target entry does not exist. References into a collection that failed
// to load are skipped; that failure is already reported. Sync calls it only
// when strict references are enabled.
func CheckReferences(reg *Registry, res *Result) []Diagnostic {
	ids := make(map[string]map[string]bool, len(res.Entries))
	for name, entries := range res.Entries {
		set := make(map[string]bool, len(entries))
		for _, e := range entries {
			set[e.ID] = true
		}
		ids[name] = set
	}

	var diags []Diagnostic
	for _, name := range reg.Names() {
		c, _ := reg.Get(name)
		for _, f := range c.Schema.References() {
			for _, e := range res.Entries[name] {
				refs, _ := e.Data[f.Name].([]schema.Reference)
				for _, ref := range refs {
					if res.Failed[ref.Collection] {
						continue
					}
					target, known := ids[ref.Collection]
					if !known {
						diags = append(diags, errDiag(CNT008, name, e.ID, e.FilePath,
							fmt.Sprintf("%s: collection %q does not exist", f.Name, ref.Collection)))
						continue
					}
					if !target[ref.ID] {
						diags = append(diags, errDiag(CNT008, name, e.ID, e.FilePath,
							fmt.Sprintf("%s: %s entry %q does not exist", f.Name, ref.Collection, ref.ID)))
					}
				}
			}
		}
	}
	return diags
}
