package drive

import (
	"fmt"
	"strings"
)

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// escapeQueryValue escapes s for use inside a single-quoted Drive query
// string literal.
func escapeQueryValue(s string) string {
	return queryEscaper.Replace(s)
}

// childrenQuery selects the non-trashed children of folderID.
func childrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", escapeQueryValue(folderID))
}

// namedChildQuery selects the non-trashed children of parentID named name.
func namedChildQuery(parentID, name string) string {
	return fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false",
		escapeQueryValue(parentID), escapeQueryValue(name))
}
