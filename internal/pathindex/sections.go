// Package pathindex derives the two identifier indexes over a finished
// section tree: bare section ids to hierarchical paths, and element ids
// to the path of their containing section. Both indexes are built once
// and read-only afterwards.
package pathindex

import (
	"github.com/starford/raido/internal/section"
)

// Sections maps every bare (de-prefixed) section id to that section's
// hierarchical path. Sections with pure-ordinal ids have no bare id and
// are omitted: they cannot be targeted by authored cross-references.
func Sections(sections []*section.Section) map[string]string {
	m := make(map[string]string)
	for _, s := range sections {
		sectionPaths(s, "", m)
	}
	return m
}

func sectionPaths(s *section.Section, prefix string, m map[string]string) {
	path := section.JoinPath(prefix, s.ID)
	if bare := section.BareID(s.ID); bare != "" {
		m[bare] = path
	}
	for _, child := range s.Children {
		sectionPaths(child, path, m)
	}
}
