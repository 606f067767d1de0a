package pathindex

import (
	"log/slog"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/section"
)

// Elements maps every identifier-carrying element anywhere inside a
// section to that section's path. Multiple ids inside one section all
// resolve to the same path; the section is the addressable unit.
func Elements(sections []*section.Section, logger *slog.Logger) map[string]string {
	m := make(map[string]string)
	for _, s := range sections {
		elementPaths(s, "", m, logger)
	}
	return m
}

func elementPaths(s *section.Section, prefix string, m map[string]string, logger *slog.Logger) {
	path := section.JoinPath(prefix, s.ID)
	elementNodes(s.Content, path, m, logger)
	for _, child := range s.Children {
		elementPaths(child, path, m, logger)
	}
}

func elementNodes(ns document.Nodes, path string, m map[string]string, logger *slog.Logger) {
	for _, n := range ns {
		elementNode(n, path, m, logger)
	}
}

func elementNode(n document.Node, path string, m map[string]string, logger *slog.Logger) {
	record := func(id string) {
		if id != "" {
			m[id] = path
		}
	}

	switch n := n.(type) {
	case *document.Header:
		record(n.Attr.ID)
		elementNodes(n.Inlines, path, m, logger)
	case *document.Div:
		record(n.Attr.ID)
		elementNodes(n.Blocks, path, m, logger)
	case *document.Span:
		record(n.Attr.ID)
		elementNodes(n.Inlines, path, m, logger)
	case *document.Image:
		record(n.Attr.ID)
	case *document.CodeBlock:
		record(n.Attr.ID)
	case *document.Para:
		elementNodes(n.Inlines, path, m, logger)
	case *document.Plain:
		elementNodes(n.Inlines, path, m, logger)
	case *document.Emph:
		elementNodes(n.Inlines, path, m, logger)
	case *document.Strong:
		elementNodes(n.Inlines, path, m, logger)
	case *document.Quoted:
		elementNodes(n.Inlines, path, m, logger)
	case *document.BulletList:
		for _, item := range n.Items {
			elementNodes(item, path, m, logger)
		}
	case *document.OrderedList:
		for _, item := range n.Items {
			elementNodes(item, path, m, logger)
		}
	case *document.DefinitionList:
		for _, item := range n.Items {
			elementNodes(item.Term, path, m, logger)
			for _, def := range item.Definitions {
				elementNodes(def, path, m, logger)
			}
		}
	case *document.Table:
		for _, cell := range n.Header {
			elementNodes(cell, path, m, logger)
		}
		for _, row := range n.Rows {
			for _, cell := range row {
				elementNodes(cell, path, m, logger)
			}
		}
	case *document.Link, *document.Code, *document.Str, *document.Space,
		*document.SoftBreak, *document.LineBreak, *document.Math:
		// Leaves: nothing addressable below here.
	default:
		logger.Warn("element index: skipping unknown node kind",
			slog.String("kind", document.Tag(n)),
			slog.String("section", path))
	}
}
