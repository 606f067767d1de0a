package document

import (
	"encoding/json"
	"fmt"
)

// Encode renders the document back into the wire format.
func (d *Doc) Encode() ([]byte, error) {
	w := wireDoc{APIVersion: rawOr(d.APIVersion, `[1,20]`), Meta: d.Meta, Blocks: d.Blocks}
	if w.Meta == nil {
		w.Meta = map[string]json.RawMessage{}
	}
	return json.Marshal(w)
}

type wireOut struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c,omitempty"`
}

func wire(t string, c any) ([]byte, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("document: encode %s: %w", t, err)
	}
	return json.Marshal(wireOut{T: t, C: payload})
}

func rawOr(raw json.RawMessage, fallback string) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(fallback)
	}
	return raw
}

// MarshalJSON renders a node sequence; nil encodes as the empty array.
func (ns Nodes) MarshalJSON() ([]byte, error) {
	if ns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Node(ns))
}

// MarshalJSON renders the attribute triple in positional-array form.
func (a Attr) MarshalJSON() ([]byte, error) {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	keyVals := a.KeyVals
	if keyVals == nil {
		keyVals = []KeyVal{}
	}
	return json.Marshal([]any{a.ID, classes, keyVals})
}

// MarshalJSON renders a [key, value] pair.
func (kv KeyVal) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{kv.Key, kv.Val})
}

// MarshalJSON renders a [term, definitions] pair.
func (di DefinitionItem) MarshalJSON() ([]byte, error) {
	defs := di.Definitions
	if defs == nil {
		defs = []Nodes{}
	}
	return json.Marshal([]any{di.Term, defs})
}

func (n *Header) MarshalJSON() ([]byte, error) {
	return wire("Header", []any{n.Level, n.Attr, n.Inlines})
}

func (n *Para) MarshalJSON() ([]byte, error) {
	return wire("Para", n.Inlines)
}

func (n *Plain) MarshalJSON() ([]byte, error) {
	return wire("Plain", n.Inlines)
}

func (n *Div) MarshalJSON() ([]byte, error) {
	return wire("Div", []any{n.Attr, n.Blocks})
}

func (n *Span) MarshalJSON() ([]byte, error) {
	return wire("Span", []any{n.Attr, n.Inlines})
}

func (n *Link) MarshalJSON() ([]byte, error) {
	return wire("Link", []any{n.Attr, n.Caption, [2]string{n.Target, n.Title}})
}

func (n *Image) MarshalJSON() ([]byte, error) {
	return wire("Image", []any{n.Attr, n.Caption, [2]string{n.Target, n.Title}})
}

func (n *CodeBlock) MarshalJSON() ([]byte, error) {
	return wire("CodeBlock", []any{n.Attr, n.Text})
}

func (n *Code) MarshalJSON() ([]byte, error) {
	return wire("Code", []any{n.Attr, n.Text})
}

func (n *BulletList) MarshalJSON() ([]byte, error) {
	items := n.Items
	if items == nil {
		items = []Nodes{}
	}
	return wire("BulletList", items)
}

func (n *OrderedList) MarshalJSON() ([]byte, error) {
	items := n.Items
	if items == nil {
		items = []Nodes{}
	}
	return wire("OrderedList", []any{rawOr(n.ListAttrs, "[]"), items})
}

func (n *DefinitionList) MarshalJSON() ([]byte, error) {
	items := n.Items
	if items == nil {
		items = []DefinitionItem{}
	}
	return wire("DefinitionList", items)
}

func (n *Table) MarshalJSON() ([]byte, error) {
	header := n.Header
	if header == nil {
		header = []Nodes{}
	}
	rows := n.Rows
	if rows == nil {
		rows = [][]Nodes{}
	}
	return wire("Table", []any{
		rawOr(n.Caption, "[]"),
		rawOr(n.Alignments, "[]"),
		rawOr(n.Widths, "[]"),
		header,
		rows,
	})
}

func (n *Emph) MarshalJSON() ([]byte, error) {
	return wire("Emph", n.Inlines)
}

func (n *Strong) MarshalJSON() ([]byte, error) {
	return wire("Strong", n.Inlines)
}

func (n *Quoted) MarshalJSON() ([]byte, error) {
	return wire("Quoted", []any{rawOr(n.QuoteType, `{"t":"DoubleQuote"}`), n.Inlines})
}

func (n *Str) MarshalJSON() ([]byte, error) {
	return wire("Str", n.Text)
}

func (n *Space) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOut{T: "Space"})
}

func (n *SoftBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOut{T: "SoftBreak"})
}

func (n *LineBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireOut{T: "LineBreak"})
}

func (n *Math) MarshalJSON() ([]byte, error) {
	return wire("Math", []any{rawOr(n.MathType, `{"t":"InlineMath"}`), n.Text})
}

func (n *Unknown) MarshalJSON() ([]byte, error) {
	return append(json.RawMessage(nil), n.Raw...), nil
}
