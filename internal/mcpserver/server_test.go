package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/testutil"
	"github.com/starford/raido/internal/writer"
)

func testServer(t *testing.T) (*Server, storage.Provider, *search.DB) {
	t.Helper()
	_, store := testutil.TestCourseDir(t)
	db := testutil.TestDB(t)
	return New(store, db, writer.FormatJSON), store, db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct call-tool test helper, so we invoke the
	// handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_course":
		result, err = srv.searchCourse(ctx, req)
	case "get_section":
		result, err = srv.getSection(ctx, req)
	case "list_sections":
		result, err = srv.listSections(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedIndex(t *testing.T, db *search.DB) {
	t.Helper()
	tree := testutil.SampleTree()
	tree[0].Content = testutil.Title("derivatives and integrals")
	if err := db.Reindex(tree); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
}

func TestGetSectionTool(t *testing.T) {
	srv, store, _ := testServer(t)
	_ = store.Write("000-intro/content.json", []byte(`[{"t":"Para","c":[]}]`))

	r := callTool(t, srv, "get_section", map[string]interface{}{"path": "000-intro"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"Para"`) {
		t.Errorf("content = %q", resultText(r))
	}
}

func TestGetSectionMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "get_section", map[string]interface{}{"path": "nope"})
	if !r.IsError {
		t.Error("expected error for missing section")
	}
}

func TestSearchCourseTool(t *testing.T) {
	srv, _, db := testServer(t)
	seedIndex(t, db)

	r := callTool(t, srv, "search_course", map[string]interface{}{"query": "derivatives"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "000-intro") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestSearchCourseMissingQuery(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "search_course", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query argument")
	}
}

func TestListSectionsTool(t *testing.T) {
	srv, _, db := testServer(t)

	r := callTool(t, srv, "list_sections", map[string]interface{}{})
	if resultText(r) != "no sections indexed" {
		t.Errorf("empty index result = %q", resultText(r))
	}

	seedIndex(t, db)
	r = callTool(t, srv, "list_sections", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "000-intro") || !strings.Contains(text, "[exercises]") {
		t.Errorf("list result = %q", text)
	}
}
