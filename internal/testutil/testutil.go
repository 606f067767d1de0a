// Package testutil provides shared test helpers for setting up course
// output directories and search databases.
package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/starford/raido/internal/document"
	"github.com/starford/raido/internal/search"
	"github.com/starford/raido/internal/section"
	"github.com/starford/raido/internal/storage"
)

// Title builds an inline node list from a plain string, the way section
// titles come out of a decoded header.
func Title(s string) document.Nodes {
	var out document.Nodes
	for i, word := range strings.Fields(s) {
		if i > 0 {
			out = append(out, &document.Space{})
		}
		out = append(out, &document.Str{Text: word})
	}
	return out
}

// TestDB creates a temporary SQLite search index that is automatically cleaned up.
func TestDB(t *testing.T) *search.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := search.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCourseDir creates a temporary output directory with a storage.Provider.
func TestCourseDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// SampleTree returns a small section tree shared by tests: two chapters,
// the first with one subsection.
func SampleTree() []*section.Section {
	return []*section.Section{
		{
			ID:    "000-intro",
			Title: Title("Introduction"),
			Children: []*section.Section{
				{ID: "000-basics", Title: Title("Basics"), Level: 2},
			},
			Level: 1,
		},
		{ID: "001-exercises", Title: Title("Exercises"), Type: "exercises", Level: 1},
	}
}
