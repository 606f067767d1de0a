package section

import (
	"testing"

	"github.com/starford/raido/internal/document"
)

func header(level int, id, title string, classes ...string) *document.Header {
	return &document.Header{
		Level:   level,
		Attr:    document.Attr{ID: id, Classes: classes},
		Inlines: document.Nodes{&document.Str{Text: title}},
	}
}

func para(text string) *document.Para {
	return &document.Para{Inlines: document.Nodes{&document.Str{Text: text}}}
}

func TestBuildSplitsByLevel(t *testing.T) {
	nodes := document.Nodes{
		header(1, "LABEL_1", "One"),
		para("intro"),
		header(2, "LABEL_1_2", "One Two"),
		para("nested"),
		header(1, "LABEL_2", "Two"),
		para("other"),
	}

	sections, preamble := Build(nodes, 1)
	if len(preamble) != 0 {
		t.Errorf("preamble = %d nodes, want 0", len(preamble))
	}
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}

	first := sections[0]
	if first.ID != "000-LABEL_1" {
		t.Errorf("first id = %q, want 000-LABEL_1", first.ID)
	}
	if document.Stringify(first.Title) != "One" {
		t.Errorf("first title = %q", document.Stringify(first.Title))
	}
	if len(first.Content) != 1 {
		t.Errorf("first content = %d nodes, want 1", len(first.Content))
	}
	if len(first.Children) != 1 || first.Children[0].ID != "000-LABEL_1_2" {
		t.Fatalf("first children = %#v", first.Children)
	}
	if first.Children[0].Level != 2 {
		t.Errorf("child level = %d, want 2", first.Children[0].Level)
	}

	if sections[1].ID != "001-LABEL_2" {
		t.Errorf("second id = %q, want 001-LABEL_2", sections[1].ID)
	}
}

func TestBuildPreamble(t *testing.T) {
	nodes := document.Nodes{
		para("before any heading"),
		header(1, "LABEL_1", "One"),
	}
	sections, preamble := Build(nodes, 1)
	if len(sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(sections))
	}
	if len(preamble) != 1 {
		t.Fatalf("preamble = %d nodes, want 1", len(preamble))
	}
}

func TestBuildOrdinalWithoutNativeID(t *testing.T) {
	nodes := document.Nodes{
		header(1, "", "Anonymous"),
		header(1, "", "Another"),
	}
	sections, _ := Build(nodes, 1)
	if sections[0].ID != "000" || sections[1].ID != "001" {
		t.Errorf("ids = %q, %q", sections[0].ID, sections[1].ID)
	}
}

func TestBuildSectionTypes(t *testing.T) {
	nodes := document.Nodes{
		header(1, "ex", "Exercises", "exercises"),
		header(1, "tst", "Final", "test"),
		header(1, "plain", "Plain"),
	}
	sections, _ := Build(nodes, 1)
	if sections[0].Type != "exercises" {
		t.Errorf("type 0 = %q", sections[0].Type)
	}
	if sections[1].Type != "test" {
		t.Errorf("type 1 = %q", sections[1].Type)
	}
	if sections[2].Type != "" {
		t.Errorf("type 2 = %q, want empty", sections[2].Type)
	}
}

func TestBuildStopsAtMaxLevel(t *testing.T) {
	deep := header(4, "LEVEL_4", "Too Deep")
	nodes := document.Nodes{
		header(1, "a", "A"),
		header(2, "b", "B"),
		header(3, "c", "C"),
		deep,
		para("deep body"),
	}
	sections, _ := Build(nodes, 1)

	third := sections[0].Children[0].Children[0]
	if third.ID != "000-c" {
		t.Fatalf("level-3 id = %q", third.ID)
	}
	if len(third.Children) != 0 {
		t.Errorf("level-3 section must not have children, got %d", len(third.Children))
	}
	// The level-4 heading stays inline in the level-3 content.
	if len(third.Content) != 2 || third.Content[0] != document.Node(deep) {
		t.Errorf("level-3 content = %#v", third.Content)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	sections, preamble := Build(nil, 1)
	if len(sections) != 0 || len(preamble) != 0 {
		t.Errorf("empty input: sections=%d preamble=%d", len(sections), len(preamble))
	}
}

func TestBareID(t *testing.T) {
	cases := map[string]string{
		"000-LABEL_1": "LABEL_1",
		"001":         "",
		"":            "",
		"00":          "",
	}
	for in, want := range cases {
		if got := BareID(in); got != want {
			t.Errorf("BareID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	if got := JoinPath("", "000-a"); got != "000-a" {
		t.Errorf("root join = %q", got)
	}
	if got := JoinPath("000-a", "001-b"); got != "000-a/001-b" {
		t.Errorf("nested join = %q", got)
	}
}
