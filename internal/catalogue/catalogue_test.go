package catalogue

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
)

// Test data: a catalogue file as a user would write it
const mockCatalogueYAML = `catalogue:
  bloat:
    - com.vendor.weather
    - com.vendor.news
  social:
    - com.example.chat
  hunter:
    - com.example.game
`

func writeTempCatalogue(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp catalogue: %v", err)
	}
	return path
}

func TestLoadPreservesCategoryOrder(t *testing.T) {
	path := writeTempCatalogue(t, mockCatalogueYAML)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var names []string
	for _, c := range cat.Categories() {
		names = append(names, c.Name)
	}

	expected := []string{"bloat", "social", "hunter"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected category order %v, got %v", expected, names)
	}
}

func TestRoundTripReproducesMapping(t *testing.T) {
	path := writeTempCatalogue(t, mockCatalogueYAML)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	saved := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := cat.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Load(saved)
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}

	if !reflect.DeepEqual(cat.Categories(), reloaded.Categories()) {
		t.Errorf("round-trip changed the mapping:\n before: %v\n after:  %v",
			dumpCategories(cat), dumpCategories(reloaded))
	}
}

func TestRoundTripSecondPassIsStable(t *testing.T) {
	path := writeTempCatalogue(t, mockCatalogueYAML)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	first := filepath.Join(t.TempDir(), "first.yaml")
	if err := cat.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	firstData, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	again, err := Load(first)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}

	second := filepath.Join(t.TempDir(), "second.yaml")
	if err := again.Save(second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	secondData, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("failed to read second file: %v", err)
	}

	if string(firstData) != string(secondData) {
		t.Errorf("save output not stable:\n first:\n%s\n second:\n%s", firstData, secondData)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	cat := New()

	if !cat.Add("hunter", "com.example.app") {
		t.Error("expected first Add to report an insertion")
	}
	if cat.Add("hunter", "com.example.app") {
		t.Error("expected second Add of the same id to be a no-op")
	}

	cats := cat.Categories()
	if len(cats) != 1 {
		t.Fatalf("expected 1 category, got %d", len(cats))
	}
	if len(cats[0].Packages) != 1 {
		t.Errorf("expected 1 package after duplicate add, got %d", len(cats[0].Packages))
	}
}

func TestAddCreatesCategoryOnFirstUse(t *testing.T) {
	cat := New()
	cat.Add("bloat", "com.a")
	cat.Add("hunter", "com.b")
	cat.Add("bloat", "com.c")

	cats := cat.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}

	// Category order follows first use, package order follows insertion.
	if cats[0].Name != "bloat" || cats[1].Name != "hunter" {
		t.Errorf("unexpected category order: %v", dumpCategories(cat))
	}
	if !reflect.DeepEqual(cats[0].Packages, []string{"com.a", "com.c"}) {
		t.Errorf("unexpected bloat packages: %v", cats[0].Packages)
	}
}

func TestLoadSuppressesDuplicates(t *testing.T) {
	path := writeTempCatalogue(t, `catalogue:
  bloat:
    - com.a
    - com.b
    - com.a
`)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cats := cat.Categories()
	if len(cats) != 1 {
		t.Fatalf("expected 1 category, got %d", len(cats))
	}
	if !reflect.DeepEqual(cats[0].Packages, []string{"com.a", "com.b"}) {
		t.Errorf("expected duplicates suppressed with first occurrence kept, got %v", cats[0].Packages)
	}
}

func TestLoadWithoutCatalogueKey(t *testing.T) {
	path := writeTempCatalogue(t, "unrelated: true\n")

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if nCats, nPkgs := cat.Counts(); nCats != 0 || nPkgs != 0 {
		t.Errorf("expected empty catalogue, got %d categories / %d packages", nCats, nPkgs)
	}
}

func TestLoadEmptyFileFails(t *testing.T) {
	path := writeTempCatalogue(t, "")

	if _, err := Load(path); err == nil {
		t.Error("expected an error for an empty catalogue file")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing catalogue file")
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := writeTempCatalogue(t, "catalogue:\n  - not\n  a: mapping\n")

	if _, err := Load(path); err == nil {
		t.Error("expected an error for a malformed catalogue file")
	}
}

func TestLoadNullCategory(t *testing.T) {
	path := writeTempCatalogue(t, "catalogue:\n  bloat:\n")

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cats := cat.Categories()
	if len(cats) != 1 || cats[0].Name != "bloat" {
		t.Fatalf("expected the empty category to survive, got %v", dumpCategories(cat))
	}
	if len(cats[0].Packages) != 0 {
		t.Errorf("expected no packages, got %v", cats[0].Packages)
	}
}

func TestSavedFileHasTopLevelKey(t *testing.T) {
	cat := New()
	cat.Add("hunter", "com.example.app")

	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	if err := cat.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	if !strings.HasPrefix(string(data), "catalogue:") {
		t.Errorf("expected saved file to start with the catalogue key, got:\n%s", data)
	}
}

func TestMatches(t *testing.T) {
	cat := New()
	cat.Add("bloat", "com.a")
	cat.Add("bloat", "com.b")

	matches := cat.Matches([]string{"com.a", "com.c"})

	expected := []Match{{Category: "bloat", Package: "com.a"}}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("expected matches %v, got %v", expected, matches)
	}
}

func TestMatchesFollowCatalogueOrder(t *testing.T) {
	cat := New()
	cat.Add("bloat", "com.b")
	cat.Add("bloat", "com.a")
	cat.Add("social", "com.c")

	matches := cat.Matches([]string{"com.c", "com.a", "com.b"})

	expected := []Match{
		{Category: "bloat", Package: "com.b"},
		{Category: "bloat", Package: "com.a"},
		{Category: "social", Package: "com.c"},
	}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("expected matches in catalogue order %v, got %v", expected, matches)
	}
}

func TestMatchesEmpty(t *testing.T) {
	cat := New()
	cat.Add("bloat", "com.a")

	if matches := cat.Matches([]string{"com.x"}); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestHas(t *testing.T) {
	cat := New()
	cat.Add("hunter", "com.example.app")

	if !cat.Has("hunter", "com.example.app") {
		t.Error("expected Has to find the filed id")
	}
	if cat.Has("hunter", "com.other") {
		t.Error("expected Has to miss an unfiled id")
	}
	if cat.Has("bloat", "com.example.app") {
		t.Error("expected Has to miss an absent category")
	}
}

func TestWatcherRelevant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.yaml")
	abs, err := filepath.Abs(path)
	if err != nil {
		t.Fatalf("failed to resolve path: %v", err)
	}

	w := &Watcher{path: abs}

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{
			name:     "write to the catalogue file",
			event:    fsnotify.Event{Name: path, Op: fsnotify.Write},
			expected: true,
		},
		{
			name:     "editor replace (create)",
			event:    fsnotify.Event{Name: path, Op: fsnotify.Create},
			expected: true,
		},
		{
			name:     "chmod only",
			event:    fsnotify.Event{Name: path, Op: fsnotify.Chmod},
			expected: false,
		},
		{
			name:     "sibling file",
			event:    fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "other.yaml"), Op: fsnotify.Write},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Relevant(tt.event); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// dumpCategories renders a catalogue compactly for test failure messages.
func dumpCategories(c *Catalogue) string {
	var sb strings.Builder
	for _, cat := range c.Categories() {
		sb.WriteString(cat.Name)
		sb.WriteString(":")
		sb.WriteString(strings.Join(cat.Packages, ","))
		sb.WriteString(" ")
	}
	return sb.String()
}
