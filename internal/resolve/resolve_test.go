package resolve

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/section"
)

var (
	sectionIdx = map[string]string{
		"LABEL_1":   "000-LABEL_1",
		"LABEL_1_2": "000-LABEL_1/001-LABEL_1_2",
	}
	elementIdx = map[string]string{
		"infolabel": "000-LABEL_1",
	}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func refLink(marker, target string) *document.Link {
	return &document.Link{
		Attr: document.Attr{
			KeyVals: []document.KeyVal{{Key: marker, Val: target}},
		},
		Caption: document.Nodes{&document.Str{Text: "caption"}},
		Target:  "#" + target,
	}
}

func wrap(link *document.Link) []*section.Section {
	return []*section.Section{{
		ID:      "001-OTHER",
		Content: document.Nodes{&document.Para{Inlines: document.Nodes{link}}},
	}}
}

func TestResolveSectionTarget(t *testing.T) {
	link := refLink("data-mref", "LABEL_1_2")
	New(sectionIdx, elementIdx, testLogger()).Process(wrap(link))

	if link.Target != "/section/000-LABEL_1/001-LABEL_1_2" {
		t.Errorf("target = %q", link.Target)
	}
	if link.Attr.KeyVals != nil {
		t.Errorf("marker attributes should be cleared: %v", link.Attr.KeyVals)
	}
	if link.Caption != nil {
		t.Errorf("plain ref should drop its caption: %v", link.Caption)
	}
}

func TestResolveElementTargetKeepsFragment(t *testing.T) {
	// Element ids win over section ids and keep the fragment so the
	// client can scroll to the element.
	link := refLink("data-mref", "infolabel")
	New(sectionIdx, elementIdx, testLogger()).Process(wrap(link))

	if link.Target != "/section/000-LABEL_1#infolabel" {
		t.Errorf("target = %q", link.Target)
	}
}

func TestResolveCaptionedRefKeepsCaption(t *testing.T) {
	link := refLink("data-msref", "LABEL_1")
	New(sectionIdx, elementIdx, testLogger()).Process(wrap(link))

	if link.Target != "/section/000-LABEL_1" {
		t.Errorf("target = %q", link.Target)
	}
	if document.Stringify(link.Caption) != "caption" {
		t.Errorf("captioned ref must keep its caption: %v", link.Caption)
	}
	if link.Attr.KeyVals != nil {
		t.Errorf("marker attributes should be cleared: %v", link.Attr.KeyVals)
	}
}

func TestResolveNamedRefDropsCaption(t *testing.T) {
	link := refLink("data-mnref", "LABEL_1")
	New(sectionIdx, elementIdx, testLogger()).Process(wrap(link))

	if link.Target != "/section/000-LABEL_1" {
		t.Errorf("target = %q", link.Target)
	}
	if link.Caption != nil {
		t.Errorf("named ref should drop its caption: %v", link.Caption)
	}
}

func TestUnresolvedRefLeftUntouched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	link := refLink("data-mref", "NO_SUCH_LABEL")
	New(sectionIdx, elementIdx, logger).Process(wrap(link))

	if link.Target != "#NO_SUCH_LABEL" {
		t.Errorf("target changed: %q", link.Target)
	}
	if len(link.Attr.KeyVals) != 1 {
		t.Errorf("attributes changed: %v", link.Attr.KeyVals)
	}
	if link.Caption == nil {
		t.Error("caption changed")
	}
	if !strings.Contains(buf.String(), "NO_SUCH_LABEL") {
		t.Errorf("expected warning naming the target, got %q", buf.String())
	}
}

func TestUnmarkedLinkIgnored(t *testing.T) {
	link := &document.Link{
		Caption: document.Nodes{&document.Str{Text: "external"}},
		Target:  "https://example.com",
	}
	New(sectionIdx, elementIdx, testLogger()).Process(wrap(link))

	if link.Target != "https://example.com" {
		t.Errorf("plain link rewritten: %q", link.Target)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	link := refLink("data-mref", "LABEL_1")
	r := New(sectionIdx, elementIdx, testLogger())
	r.Process(wrap(link))
	first := link.Target
	r.Process(wrap(link))
	if link.Target != first {
		t.Errorf("second pass changed target: %q -> %q", first, link.Target)
	}
}

func TestResolveInsideContainers(t *testing.T) {
	link := refLink("data-msref", "LABEL_1")
	tree := []*section.Section{{
		ID: "001-OTHER",
		Content: document.Nodes{
			&document.Div{Blocks: document.Nodes{
				&document.BulletList{Items: []document.Nodes{
					{&document.Plain{Inlines: document.Nodes{
						&document.Span{Inlines: document.Nodes{link}},
					}}},
				}},
			}},
		},
	}}
	New(sectionIdx, elementIdx, testLogger()).Process(tree)

	if link.Target != "/section/000-LABEL_1" {
		t.Errorf("nested link not resolved: %q", link.Target)
	}
}

func TestOpaqueSpansSkipped(t *testing.T) {
	indexed := refLink("data-mref", "LABEL_1")
	quiz := refLink("data-mref", "LABEL_1")
	tree := []*section.Section{{
		ID: "001-OTHER",
		Content: document.Nodes{
			&document.Plain{Inlines: document.Nodes{
				&document.Span{
					Attr: document.Attr{
						KeyVals: []document.KeyVal{{Key: "data-index-term", Val: "x"}},
					},
					Inlines: document.Nodes{indexed},
				},
				&document.Span{
					Attr: document.Attr{
						Classes: []string{"question"},
						KeyVals: []document.KeyVal{{Key: "points", Val: "2"}},
					},
					Inlines: document.Nodes{quiz},
				},
			}},
		},
	}}
	New(sectionIdx, elementIdx, testLogger()).Process(tree)

	if indexed.Target != "#LABEL_1" {
		t.Errorf("index-term span content rewritten: %q", indexed.Target)
	}
	if quiz.Target != "#LABEL_1" {
		t.Errorf("question span content rewritten: %q", quiz.Target)
	}
}
