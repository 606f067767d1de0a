package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/starford/raido/internal/apperr"
)

// Doc is the complete upstream artifact: API version and metadata are
// carried opaquely, blocks are the flat node sequence the pipeline
// consumes.
type Doc struct {
	APIVersion json.RawMessage
	Meta       map[string]json.RawMessage
	Blocks     Nodes
}

type wireDoc struct {
	APIVersion json.RawMessage            `json:"pandoc-api-version"`
	Meta       map[string]json.RawMessage `json:"meta"`
	Blocks     Nodes                      `json:"blocks"`
}

type wireNode struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c"`
}

// Decode parses a complete artifact.
func Decode(data []byte) (*Doc, error) {
	var w wireDoc
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("document: decode artifact: %w", err)
	}
	return &Doc{APIVersion: w.APIVersion, Meta: w.Meta, Blocks: w.Blocks}, nil
}

// Title extracts the course title from document metadata (a MetaInlines
// entry under "title"). Returns "" when absent or not inline content.
func (d *Doc) Title() string {
	raw, ok := d.Meta["title"]
	if !ok {
		return ""
	}
	var m struct {
		T string `json:"t"`
		C Nodes  `json:"c"`
	}
	if err := json.Unmarshal(raw, &m); err != nil || m.T != "MetaInlines" {
		return ""
	}
	return Stringify(m.C)
}

// UnmarshalJSON decodes a node sequence. A nested array where a node is
// expected is spliced into the sequence in place; the upstream tool emits
// this shape inside definition-list terms.
func (ns *Nodes) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		// A single bare node where a sequence is expected.
		n, nerr := decodeNode(data)
		if nerr != nil {
			return err
		}
		*ns = Nodes{n}
		return nil
	}
	out := make(Nodes, 0, len(raws))
	for _, raw := range raws {
		if isArray(raw) {
			var sub Nodes
			if err := json.Unmarshal(raw, &sub); err != nil {
				return err
			}
			out = append(out, sub...)
			continue
		}
		n, err := decodeNode(raw)
		if err != nil {
			return err
		}
		out = append(out, n)
	}
	*ns = out
	return nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

func decodeNode(raw json.RawMessage) (Node, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("document: decode node: %w", err)
	}

	switch w.T {
	case "Header":
		n := &Header{}
		parts, err := splitParts(w, 3)
		if err != nil {
			return nil, err
		}
		if err := unmarshalParts(w.T, parts, &n.Level, &n.Attr, &n.Inlines); err != nil {
			return nil, err
		}
		return n, nil
	case "Para":
		n := &Para{}
		if err := json.Unmarshal(w.C, &n.Inlines); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Plain":
		n := &Plain{}
		if err := json.Unmarshal(w.C, &n.Inlines); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Div":
		n := &Div{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		if err := unmarshalParts(w.T, parts, &n.Attr, &n.Blocks); err != nil {
			return nil, err
		}
		return n, nil
	case "Span":
		n := &Span{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		if err := unmarshalParts(w.T, parts, &n.Attr, &n.Inlines); err != nil {
			return nil, err
		}
		return n, nil
	case "Link":
		n := &Link{}
		if err := decodeTargeted(w, &n.Attr, &n.Caption, &n.Target, &n.Title); err != nil {
			return nil, err
		}
		return n, nil
	case "Image":
		n := &Image{}
		if err := decodeTargeted(w, &n.Attr, &n.Caption, &n.Target, &n.Title); err != nil {
			return nil, err
		}
		return n, nil
	case "CodeBlock":
		n := &CodeBlock{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		if err := unmarshalParts(w.T, parts, &n.Attr, &n.Text); err != nil {
			return nil, err
		}
		return n, nil
	case "Code":
		n := &Code{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		if err := unmarshalParts(w.T, parts, &n.Attr, &n.Text); err != nil {
			return nil, err
		}
		return n, nil
	case "BulletList":
		n := &BulletList{}
		if err := json.Unmarshal(w.C, &n.Items); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "OrderedList":
		n := &OrderedList{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		n.ListAttrs = parts[0]
		if err := json.Unmarshal(parts[1], &n.Items); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "DefinitionList":
		n := &DefinitionList{}
		if err := json.Unmarshal(w.C, &n.Items); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Table":
		n := &Table{}
		parts, err := splitParts(w, 5)
		if err != nil {
			return nil, err
		}
		n.Caption, n.Alignments, n.Widths = parts[0], parts[1], parts[2]
		if err := json.Unmarshal(parts[3], &n.Header); err != nil {
			return nil, malformed(w.T, err)
		}
		if err := json.Unmarshal(parts[4], &n.Rows); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Emph":
		n := &Emph{}
		if err := json.Unmarshal(w.C, &n.Inlines); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Strong":
		n := &Strong{}
		if err := json.Unmarshal(w.C, &n.Inlines); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Quoted":
		n := &Quoted{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		n.QuoteType = parts[0]
		if err := json.Unmarshal(parts[1], &n.Inlines); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Str":
		n := &Str{}
		if err := json.Unmarshal(w.C, &n.Text); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	case "Space":
		return &Space{}, nil
	case "SoftBreak":
		return &SoftBreak{}, nil
	case "LineBreak":
		return &LineBreak{}, nil
	case "Math":
		n := &Math{}
		parts, err := splitParts(w, 2)
		if err != nil {
			return nil, err
		}
		n.MathType = parts[0]
		if err := json.Unmarshal(parts[1], &n.Text); err != nil {
			return nil, malformed(w.T, err)
		}
		return n, nil
	}

	return &Unknown{Tag: w.T, Raw: append(json.RawMessage(nil), raw...)}, nil
}

// decodeTargeted handles the shared [attr, inlines, [url, title]] layout
// of Link and Image.
func decodeTargeted(w wireNode, attr *Attr, caption *Nodes, target, title *string) error {
	parts, err := splitParts(w, 3)
	if err != nil {
		return err
	}
	if err := unmarshalParts(w.T, parts[:2], attr, caption); err != nil {
		return err
	}
	var pair [2]string
	if err := json.Unmarshal(parts[2], &pair); err != nil {
		return malformed(w.T, err)
	}
	*target, *title = pair[0], pair[1]
	return nil
}

// splitParts splits a positional-array payload into exactly want raw
// elements.
func splitParts(w wireNode, want int) ([]json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(w.C, &parts); err != nil {
		return nil, malformed(w.T, err)
	}
	if len(parts) != want {
		return nil, fmt.Errorf("document: %s payload has %d elements, want %d: %w",
			w.T, len(parts), want, apperr.ErrMalformedNode)
	}
	return parts, nil
}

func unmarshalParts(tag string, parts []json.RawMessage, targets ...any) error {
	for i, tgt := range targets {
		if err := json.Unmarshal(parts[i], tgt); err != nil {
			return malformed(tag, err)
		}
	}
	return nil
}

func malformed(tag string, err error) error {
	return fmt.Errorf("document: decode %s: %v: %w", tag, err, apperr.ErrMalformedNode)
}

// UnmarshalJSON decodes the [id, classes, pairs] attribute triple.
func (a *Attr) UnmarshalJSON(data []byte) error {
	var w [3]json.RawMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("document: decode attr: %w", err)
	}
	if err := json.Unmarshal(w[0], &a.ID); err != nil {
		return fmt.Errorf("document: decode attr id: %w", err)
	}
	if err := json.Unmarshal(w[1], &a.Classes); err != nil {
		return fmt.Errorf("document: decode attr classes: %w", err)
	}
	if err := json.Unmarshal(w[2], &a.KeyVals); err != nil {
		return fmt.Errorf("document: decode attr pairs: %w", err)
	}
	return nil
}

// UnmarshalJSON decodes a [key, value] pair.
func (kv *KeyVal) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("document: decode key-val: %w", err)
	}
	kv.Key, kv.Val = pair[0], pair[1]
	return nil
}

// UnmarshalJSON decodes a [term, definitions] pair.
func (di *DefinitionItem) UnmarshalJSON(data []byte) error {
	var w [2]json.RawMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("document: decode definition item: %w", err)
	}
	if err := json.Unmarshal(w[0], &di.Term); err != nil {
		return err
	}
	if err := json.Unmarshal(w[1], &di.Definitions); err != nil {
		return err
	}
	return nil
}
