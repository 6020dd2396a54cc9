package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/eykd/sitecontent/internal/content"
)

// errContentInvalid is returned by commands that found error diagnostics.
var errContentInvalid = errors.New("content has validation errors")

// diagnosticLocation names where d was raised: collection/id for entries,
// the source path for file-level problems, otherwise the collection.
func diagnosticLocation(d content.Diagnostic) string {
	switch {
	case d.ID != "":
		return d.Collection + "/" + d.ID
	case d.Path != "":
		return d.Path
	}
	return d.Collection
}

// writeDiagnostics writes diags one per line as "CODE severity location: message".
func writeDiagnostics(w io.Writer, diags []content.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s %s %s: %s\n",
			d.Code,
			d.Severity,
			sanitizeText(diagnosticLocation(d)),
			sanitizeText(d.Message),
		)
	}
}

// nonNilDiagnostics returns diags, or an empty slice so JSON output is [] rather than null.
func nonNilDiagnostics(diags []content.Diagnostic) []content.Diagnostic {
	if diags == nil {
		return []content.Diagnostic{}
	}
	return diags
}

// encodeJSON writes v to w as indented JSON.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
