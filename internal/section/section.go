// Package section defines the course section tree and the builder that
// splits a flat node sequence into it by heading level.
package section

import (
	"strings"

	"github.com/starford/raido/internal/document"
)

// MaxLevel is the deepest heading level that becomes a tree node.
// Headings below it stay inline in their ancestor's content.
const MaxLevel = 3

// Section is one node of the course tree. Content is present until the
// writer detaches it; what remains is the table-of-contents skeleton.
type Section struct {
	Title    document.Nodes `json:"title"`
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Content  document.Nodes `json:"content,omitempty"`
	Children []*Section     `json:"children,omitempty"`
	Level    int            `json:"-"`
}

// BareID strips the ordinal prefix from a section id, recovering the
// author-supplied heading identifier ("000-foo" -> "foo"). Returns ""
// for pure-ordinal ids, which are unreachable via cross-references.
func BareID(id string) string {
	if len(id) < 3 {
		return ""
	}
	return strings.TrimPrefix(id[3:], "-")
}

// JoinPath appends a child id to a parent path.
func JoinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "/" + id
}
