package section

import (
	"fmt"

	"github.com/starford/raido/internal/document"
)

// Build splits a flat node sequence into sibling sections at the given
// heading level. It returns the sections in input order plus the
// preamble: nodes seen before the first level-matching heading. At the
// document root the preamble becomes the root section's leading content;
// in recursive calls it is the parent's own content.
func Build(nodes document.Nodes, level int) ([]*Section, document.Nodes) {
	var (
		sections []*Section
		preamble document.Nodes
		pending  document.Nodes
		current  *Section
		ordinal  int
	)

	closeSection := func() {
		finalize(current, pending, level)
		sections = append(sections, current)
		current = nil
		pending = nil
	}

	for _, node := range nodes {
		h, ok := node.(*document.Header)
		if !ok || h.Level != level {
			if current == nil {
				preamble = append(preamble, node)
			} else {
				pending = append(pending, node)
			}
			continue
		}

		if current != nil {
			closeSection()
		}

		current = &Section{
			Title: h.Inlines,
			ID:    sectionID(ordinal, h.Attr.ID),
			Level: level,
		}
		switch {
		case h.Attr.HasClass("exercises"):
			current.Type = "exercises"
		case h.Attr.HasClass("test"):
			current.Type = "test"
		}
		ordinal++
	}

	if current != nil {
		closeSection()
	}

	return sections, preamble
}

// finalize attaches the accumulated buffer to a section being closed.
// Above MaxLevel the buffer is split further; at MaxLevel it becomes the
// section's content verbatim, deeper headings included.
func finalize(s *Section, pending document.Nodes, level int) {
	if level < MaxLevel {
		children, content := Build(pending, level+1)
		if len(children) > 0 {
			s.Children = children
		}
		if len(content) > 0 {
			s.Content = content
		}
		return
	}
	if len(pending) > 0 {
		s.Content = pending
	}
}

// sectionID builds the ordinal-prefixed id. The zero-padded ordinal keeps
// sibling paths unique and document-ordered even when headings carry no
// native identifier or reuse one.
func sectionID(ordinal int, nativeID string) string {
	if nativeID == "" {
		return fmt.Sprintf("%03d", ordinal)
	}
	return fmt.Sprintf("%03d-%s", ordinal, nativeID)
}
