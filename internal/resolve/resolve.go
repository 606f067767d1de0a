// Package resolve rewrites marked reference links against the two path
// indexes, turning legacy id targets into resolved section URLs.
package resolve

import (
	"log/slog"
	"strings"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/section"
)

// Reference marker attribute keys. Exactly one is present on a link that
// still needs resolution; all are cleared on success, which is what makes
// a second resolver pass a no-op.
const (
	markerPlain     = "data-mref"  // caption dropped, target renders its own
	markerCaptioned = "data-msref" // caption preserved verbatim
	markerNamed     = "data-mnref" // caption dropped, like markerPlain
)

// Resolver rewrites reference links using the element and section
// indexes. Both maps are read-only once resolution starts.
type Resolver struct {
	sectionIndex map[string]string
	elementIndex map[string]string
	logger       *slog.Logger
}

// New creates a Resolver over the two finished indexes.
func New(sectionIndex, elementIndex map[string]string, logger *slog.Logger) *Resolver {
	return &Resolver{
		sectionIndex: sectionIndex,
		elementIndex: elementIndex,
		logger:       logger,
	}
}

// Process walks the whole tree and rewrites every marked reference link
// in place. Unresolvable targets are logged and left untouched.
func (r *Resolver) Process(sections []*section.Section) {
	for _, s := range sections {
		r.handleSection(s)
	}
}

func (r *Resolver) handleSection(s *section.Section) {
	r.handleNodes(s.Content, s)
	for _, child := range s.Children {
		r.handleSection(child)
	}
}

func (r *Resolver) handleNodes(ns document.Nodes, s *section.Section) {
	for _, n := range ns {
		r.handleNode(n, s)
	}
}

func (r *Resolver) handleNode(n document.Node, s *section.Section) {
	switch n := n.(type) {
	case *document.Link:
		r.handleRef(n, s)
	case *document.Span:
		r.handleSpan(n, s)
	case *document.Div:
		r.handleNodes(n.Blocks, s)
	case *document.Para:
		r.handleNodes(n.Inlines, s)
	case *document.Plain:
		r.handleNodes(n.Inlines, s)
	case *document.Emph:
		r.handleNodes(n.Inlines, s)
	case *document.Strong:
		r.handleNodes(n.Inlines, s)
	case *document.Quoted:
		r.handleNodes(n.Inlines, s)
	case *document.BulletList:
		for _, item := range n.Items {
			r.handleNodes(item, s)
		}
	case *document.OrderedList:
		for _, item := range n.Items {
			r.handleNodes(item, s)
		}
	case *document.DefinitionList:
		for _, item := range n.Items {
			r.handleNodes(item.Term, s)
			for _, def := range item.Definitions {
				r.handleNodes(def, s)
			}
		}
	case *document.Table:
		for _, cell := range n.Header {
			r.handleNodes(cell, s)
		}
		for _, row := range n.Rows {
			for _, cell := range row {
				r.handleNodes(cell, s)
			}
		}
	case *document.Header, *document.Image, *document.Code, *document.CodeBlock,
		*document.Str, *document.Space, *document.SoftBreak, *document.LineBreak,
		*document.Math:
		// No resolvable references below here.
	default:
		r.logger.Warn("link resolver: skipping unknown node kind",
			slog.String("kind", document.Tag(n)),
			slog.String("section", s.ID))
	}
}

// handleSpan applies the span opacity rules: index terms and quiz-only
// spans cannot contain reference links and are left alone; spans without
// attribute pairs are transparent wrappers.
func (r *Resolver) handleSpan(n *document.Span, s *section.Section) {
	kv := n.Attr.KeyValMap()
	switch {
	case hasKey(kv, "data-index-term"):
	case len(kv) == 0:
		r.handleNodes(n.Inlines, s)
	case n.Attr.HasClass("question"):
	default:
		r.logger.Warn("link resolver: unexpected span attributes",
			slog.String("section", s.ID))
	}
}

func (r *Resolver) handleRef(n *document.Link, s *section.Section) {
	kv := n.Attr.KeyValMap()

	var kind string
	dropCaption := false
	switch {
	case hasKey(kv, markerPlain):
		kind, dropCaption = "MRef", true
	case hasKey(kv, markerCaptioned):
		kind = "MSRef"
	case hasKey(kv, markerNamed):
		kind, dropCaption = "MNRef", true
	default:
		return
	}

	target := strings.TrimPrefix(n.Target, "#")

	var url string
	if path, ok := r.elementIndex[target]; ok {
		url = "/section/" + path + "#" + target
	} else if path, ok := r.sectionIndex[target]; ok {
		url = "/section/" + path
	} else {
		r.logger.Warn("link resolver: unresolved reference target",
			slog.String("kind", kind),
			slog.String("target", target),
			slog.String("section", s.ID))
		return
	}

	n.Attr.KeyVals = nil
	n.Target = url
	if dropCaption {
		n.Caption = nil
	}

	r.logger.Debug("link resolver: rewrote reference",
		slog.String("kind", kind),
		slog.String("target", target),
		slog.String("url", url))
}

func hasKey(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}
