package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/testutil"
	"github.com/starford/raido/internal/writer"
)

// builtCourse seeds a store and search index the way a pipeline run would.
func builtCourse(t *testing.T) (storage.Provider, *search.DB) {
	t.Helper()
	_, store := testutil.TestCourseDir(t)
	db := testutil.TestDB(t)

	tree := testutil.SampleTree()
	for i := range tree {
		tree[i].Content = document.Nodes{
			&document.Para{Inlines: testutil.Title("body of " + tree[i].ID)},
		}
	}
	if err := db.Reindex(tree); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	if err := store.Write("content.json", []byte(`[{"t":"Para","c":[{"t":"Str","c":"root"}]}]`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("000-basics/content.json", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("toc.json", []byte(`[{"id":"000-intro"}]`)); err != nil {
		t.Fatal(err)
	}
	return store, db
}

func testRouter(t *testing.T, authEnabled bool, token string) http.Handler {
	t.Helper()
	store, db := builtCourse(t)
	h := NewHandler(store, db, writer.FormatJSON)
	return NewRouter(h, authEnabled, token, nil)
}

func doGet(t *testing.T, handler http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetTOC(t *testing.T) {
	r := testRouter(t, false, "")
	rec := doGet(t, r, "/toc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var toc []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &toc); err != nil {
		t.Fatalf("toc not decodable: %v", err)
	}
}

func TestGetTOCMissing(t *testing.T) {
	_, store := testutil.TestCourseDir(t)
	db := testutil.TestDB(t)
	h := NewHandler(store, db, writer.FormatJSON)
	rec := doGet(t, NewRouter(h, false, "", nil), "/toc", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListSections(t *testing.T) {
	r := testRouter(t, false, "")
	rec := doGet(t, r, "/sections", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 3 {
		t.Errorf("total = %d, want 3", body.Total)
	}
}

func TestGetSection(t *testing.T) {
	r := testRouter(t, false, "")

	rec := doGet(t, r, "/section/000-basics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	// Empty path serves the root section's file at the output base.
	rec = doGet(t, r, "/section/", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("root section status = %d", rec.Code)
	}

	rec = doGet(t, r, "/section/missing/part", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing section status = %d", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	r := testRouter(t, false, "")

	rec := doGet(t, r, "/search?q=body", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Results []search.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) == 0 {
		t.Error("expected at least one hit")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	r := testRouter(t, false, "")
	rec := doGet(t, r, "/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchNoHitsReturnsEmptyArray(t *testing.T) {
	r := testRouter(t, false, "")
	rec := doGet(t, r, "/search?q=zzzznohits", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"results":[]`) {
		t.Errorf("body = %s", got)
	}
}

func TestAuthEnforced(t *testing.T) {
	r := testRouter(t, true, "secret")

	rec := doGet(t, r, "/toc", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	rec = doGet(t, r, "/toc", map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}

	rec = doGet(t, r, "/toc", map[string]string{"Authorization": "Bearer secret"})
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
}
