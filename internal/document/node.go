// Package document models the tagged-node wire format produced by the
// upstream conversion tool. Nodes form a closed union; anything outside
// the known set decodes into Unknown so a pass can warn and skip it
// without losing the raw payload.
package document

import "encoding/json"

// Node is one element of the document tree. The concrete types below are
// the complete set of kinds the pipeline understands.
type Node interface {
	node()
}

// Nodes is an ordered node sequence. It carries custom JSON handling:
// decoding flattens stray nested arrays (the upstream tool sometimes
// emits a list where a single node is expected and vice versa) and
// encoding renders a nil sequence as [] to stay wire-compatible.
type Nodes []Node

// KeyVal is one ordered attribute pair.
type KeyVal struct {
	Key string
	Val string
}

// Attr is the [identifier, class-list, attribute-pairs] triple carried by
// container-like nodes.
type Attr struct {
	ID      string
	Classes []string
	KeyVals []KeyVal
}

// HasClass reports whether the class list contains s.
func (a Attr) HasClass(s string) bool {
	for _, c := range a.Classes {
		if c == s {
			return true
		}
	}
	return false
}

// KeyValMap returns the attribute pairs as a lookup map.
func (a Attr) KeyValMap() map[string]string {
	m := make(map[string]string, len(a.KeyVals))
	for _, kv := range a.KeyVals {
		m[kv.Key] = kv.Val
	}
	return m
}

// Empty reports whether the attr carries no id, classes or pairs.
func (a Attr) Empty() bool {
	return a.ID == "" && len(a.Classes) == 0 && len(a.KeyVals) == 0
}

// Header is a heading with level, attributes and inline title content.
type Header struct {
	Level   int
	Attr    Attr
	Inlines Nodes
}

// Para is a paragraph block.
type Para struct {
	Inlines Nodes
}

// Plain is a plain-text block (paragraph without implicit spacing).
type Plain struct {
	Inlines Nodes
}

// Div is a block container with attributes.
type Div struct {
	Attr   Attr
	Blocks Nodes
}

// Span is an inline container with attributes.
type Span struct {
	Attr    Attr
	Inlines Nodes
}

// Link is a reference link. Target and Title form the wire target pair;
// Caption is the inline caption content.
type Link struct {
	Attr    Attr
	Caption Nodes
	Target  string
	Title   string
}

// Image mirrors Link for embedded images.
type Image struct {
	Attr    Attr
	Caption Nodes
	Target  string
	Title   string
}

// CodeBlock is a verbatim block with attributes.
type CodeBlock struct {
	Attr Attr
	Text string
}

// Code is inline verbatim text with attributes.
type Code struct {
	Attr Attr
	Text string
}

// BulletList is an unordered list; every item is a block sequence.
type BulletList struct {
	Items []Nodes
}

// OrderedList is an ordered list. ListAttrs (start number, numbering
// style, delimiter) is carried opaquely; no pass inspects it.
type OrderedList struct {
	ListAttrs json.RawMessage
	Items     []Nodes
}

// DefinitionItem is one term with its definitions.
type DefinitionItem struct {
	Term        Nodes
	Definitions []Nodes
}

// DefinitionList is an ordered sequence of term/definition pairs.
type DefinitionList struct {
	Items []DefinitionItem
}

// Table is the positional table form: caption, alignments and widths are
// carried opaquely; header cells and body rows are walked.
type Table struct {
	Caption    json.RawMessage
	Alignments json.RawMessage
	Widths     json.RawMessage
	Header     []Nodes
	Rows       [][]Nodes
}

// Emph is emphasised inline content.
type Emph struct {
	Inlines Nodes
}

// Strong is strongly emphasised inline content.
type Strong struct {
	Inlines Nodes
}

// Quoted is quoted inline content; the quote type is carried opaquely.
type Quoted struct {
	QuoteType json.RawMessage
	Inlines   Nodes
}

// Str is a text run.
type Str struct {
	Text string
}

// Space is a single inter-word space.
type Space struct{}

// SoftBreak is a soft line break.
type SoftBreak struct{}

// LineBreak is a hard line break.
type LineBreak struct{}

// Math is a math element; the math type (inline/display) is carried
// opaquely.
type Math struct {
	MathType json.RawMessage
	Text     string
}

// Unknown preserves a node whose tag is outside the known set. Raw holds
// the complete original JSON so re-encoding is lossless.
type Unknown struct {
	Tag string
	Raw json.RawMessage
}

func (*Header) node()         {}
func (*Para) node()           {}
func (*Plain) node()          {}
func (*Div) node()            {}
func (*Span) node()           {}
func (*Link) node()           {}
func (*Image) node()          {}
func (*CodeBlock) node()      {}
func (*Code) node()           {}
func (*BulletList) node()     {}
func (*OrderedList) node()    {}
func (*DefinitionList) node() {}
func (*Table) node()          {}
func (*Emph) node()           {}
func (*Strong) node()         {}
func (*Quoted) node()         {}
func (*Str) node()            {}
func (*Space) node()          {}
func (*SoftBreak) node()      {}
func (*LineBreak) node()      {}
func (*Math) node()           {}
func (*Unknown) node()        {}

// Tag returns the wire tag for a node, used in warnings.
func Tag(n Node) string {
	switch n := n.(type) {
	case *Header:
		return "Header"
	case *Para:
		return "Para"
	case *Plain:
		return "Plain"
	case *Div:
		return "Div"
	case *Span:
		return "Span"
	case *Link:
		return "Link"
	case *Image:
		return "Image"
	case *CodeBlock:
		return "CodeBlock"
	case *Code:
		return "Code"
	case *BulletList:
		return "BulletList"
	case *OrderedList:
		return "OrderedList"
	case *DefinitionList:
		return "DefinitionList"
	case *Table:
		return "Table"
	case *Emph:
		return "Emph"
	case *Strong:
		return "Strong"
	case *Quoted:
		return "Quoted"
	case *Str:
		return "Str"
	case *Space:
		return "Space"
	case *SoftBreak:
		return "SoftBreak"
	case *LineBreak:
		return "LineBreak"
	case *Math:
		return "Math"
	case *Unknown:
		return n.Tag
	}
	return "Invalid"
}
