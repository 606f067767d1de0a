// Package writer serializes the section tree to one file per section,
// detaching content as it goes so the in-memory tree degrades into a
// table-of-contents skeleton.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/section"
	"github.com/starford/raido/internal/storage"
)

// Output serialization modes.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Ext returns the content file extension for a serialization mode.
func Ext(format string) string {
	if format == FormatMarkdown {
		return "md"
	}
	return "json"
}

// Writer emits section content files through a storage provider.
type Writer struct {
	store     storage.Provider
	format    string
	flattener Flattener
	logger    *slog.Logger
}

// New creates a Writer. The flattener is only consulted in markdown mode
// and may be nil otherwise.
func New(store storage.Provider, format string, flattener Flattener, logger *slog.Logger) *Writer {
	return &Writer{store: store, format: format, flattener: flattener, logger: logger}
}

// WriteAll writes every section. The first top-level section is the root
// and writes directly into the output base; all others nest one path
// segment per section. Content is detached from the tree before recursing
// into children.
func (w *Writer) WriteAll(ctx context.Context, sections []*section.Section) error {
	for idx, s := range sections {
		if err := w.writeSection(ctx, s, "", 1, idx == 0); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSection(ctx context.Context, s *section.Section, dir string, depth int, root bool) error {
	if depth > section.MaxLevel {
		return nil
	}

	outdir := dir
	if !root {
		outdir = path.Join(dir, s.ID)
	}

	// Detach content before recursing; missing content writes as empty.
	content := s.Content
	s.Content = nil

	data, err := w.renderContent(ctx, s, content)
	if err != nil {
		return err
	}

	file := path.Join(outdir, "content."+Ext(w.format))
	if err := w.store.Write(file, data); err != nil {
		return fmt.Errorf("writer: section %s: %w", s.ID, err)
	}
	w.logger.Info("wrote section", slog.String("id", s.ID), slog.String("file", file))

	for _, child := range s.Children {
		if err := w.writeSection(ctx, child, outdir, depth+1, false); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) renderContent(ctx context.Context, s *section.Section, content document.Nodes) ([]byte, error) {
	if w.format != FormatMarkdown {
		data, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("writer: encode section %s: %w", s.ID, err)
		}
		return data, nil
	}

	doc, err := sectionDoc(s, content)
	if err != nil {
		return nil, err
	}
	out, err := w.flattener.Flatten(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("writer: flatten section %s: %w", s.ID, err)
	}
	return out, nil
}

// sectionDoc wraps detached content into a standalone document so the
// flattener can render title and type as metadata.
func sectionDoc(s *section.Section, content document.Nodes) ([]byte, error) {
	titleJSON, err := json.Marshal(s.Title)
	if err != nil {
		return nil, fmt.Errorf("writer: encode title of %s: %w", s.ID, err)
	}
	metaInlines := func(c json.RawMessage) json.RawMessage {
		out, _ := json.Marshal(map[string]json.RawMessage{
			"t": json.RawMessage(`"MetaInlines"`),
			"c": c,
		})
		return out
	}

	meta := map[string]json.RawMessage{
		"title": metaInlines(titleJSON),
	}
	if s.Type != "" {
		typeJSON, _ := json.Marshal(document.Nodes{&document.Str{Text: s.Type}})
		meta["type"] = metaInlines(typeJSON)
	}

	doc := document.Doc{Meta: meta, Blocks: content}
	return doc.Encode()
}

// WriteTOC writes the content-stripped section tree at the output base.
// Only meaningful after WriteAll has detached all content.
func (w *Writer) WriteTOC(sections []*section.Section) error {
	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("writer: encode toc: %w", err)
	}
	if err := w.store.Write("toc.json", data); err != nil {
		return fmt.Errorf("writer: toc: %w", err)
	}
	w.logger.Info("wrote toc", slog.String("file", "toc.json"))
	return nil
}
