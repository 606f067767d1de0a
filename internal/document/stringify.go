package document

import "strings"

// Stringify concatenates Str and Space nodes into a flat string. Used for
// section titles, which are plain inline runs.
func Stringify(ns Nodes) string {
	var b strings.Builder
	for _, n := range ns {
		switch n := n.(type) {
		case *Str:
			b.WriteString(n.Text)
		case *Space:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// PlainText extracts all human-readable text from a node sequence,
// recursing through every content-bearing kind. Used to feed the search
// index.
func PlainText(ns Nodes) string {
	var b strings.Builder
	plainText(ns, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func plainText(ns Nodes, b *strings.Builder) {
	for _, n := range ns {
		switch n := n.(type) {
		case *Str:
			b.WriteString(n.Text)
		case *Space, *SoftBreak, *LineBreak:
			b.WriteByte(' ')
		case *Code:
			b.WriteByte(' ')
			b.WriteString(n.Text)
			b.WriteByte(' ')
		case *CodeBlock:
			b.WriteByte(' ')
			b.WriteString(n.Text)
			b.WriteByte(' ')
		case *Math:
			b.WriteByte(' ')
			b.WriteString(n.Text)
			b.WriteByte(' ')
		case *Header:
			plainText(n.Inlines, b)
			b.WriteByte(' ')
		case *Para:
			plainText(n.Inlines, b)
			b.WriteByte(' ')
		case *Plain:
			plainText(n.Inlines, b)
			b.WriteByte(' ')
		case *Div:
			plainText(n.Blocks, b)
		case *Span:
			plainText(n.Inlines, b)
		case *Link:
			plainText(n.Caption, b)
		case *Image:
			plainText(n.Caption, b)
		case *Emph:
			plainText(n.Inlines, b)
		case *Strong:
			plainText(n.Inlines, b)
		case *Quoted:
			plainText(n.Inlines, b)
		case *BulletList:
			for _, item := range n.Items {
				plainText(item, b)
				b.WriteByte(' ')
			}
		case *OrderedList:
			for _, item := range n.Items {
				plainText(item, b)
				b.WriteByte(' ')
			}
		case *DefinitionList:
			for _, item := range n.Items {
				plainText(item.Term, b)
				b.WriteByte(' ')
				for _, def := range item.Definitions {
					plainText(def, b)
					b.WriteByte(' ')
				}
			}
		case *Table:
			for _, cell := range n.Header {
				plainText(cell, b)
				b.WriteByte(' ')
			}
			for _, row := range n.Rows {
				for _, cell := range row {
					plainText(cell, b)
					b.WriteByte(' ')
				}
			}
		}
	}
}
