package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleCSV = `date, title, content, description, keywords, tags, bg_videos
2026-09-01, First , Some text here , Did you know? ," history, fun fact "," funfact history ","'ocean waves', 'beach sunset'"
2026-08-31, Old, Older text, Old desc, misc, old,'clouds'
2026-09-01,Second,More text,Another desc, science , science shorts ,'city lights'
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FiltersByDateAndNormalizes(t *testing.T) {
	csvPath := writeSample(t, sampleCSV)
	batchPath := filepath.Join(t.TempDir(), "batch.json")

	batch, err := New(csvPath).Load("2026-09-01", batchPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch))
	}

	first := batch[0]
	if first.ID != 1 {
		t.Fatalf("expected id 1, got %d", first.ID)
	}
	if first.Title != "First" || first.Content != "Some text here" {
		t.Fatalf("fields not trimmed: %+v", first)
	}
	if !reflect.DeepEqual(first.Keywords, []string{"history", "fun fact"}) {
		t.Fatalf("unexpected keywords: %v", first.Keywords)
	}
	if !reflect.DeepEqual(first.Tags, []string{"funfact", "history"}) {
		t.Fatalf("unexpected tags: %v", first.Tags)
	}
	if !reflect.DeepEqual(first.BgQueries, []string{"ocean waves", "beach sunset"}) {
		t.Fatalf("unexpected bg queries: %v", first.BgQueries)
	}

	// IDs are ordinals over all rows, not just matches: the second match is
	// the third row scanned.
	if batch[1].ID != 3 {
		t.Fatalf("expected id 3 for second match, got %d", batch[1].ID)
	}
}

func TestLoad_PersistsBatchForResume(t *testing.T) {
	csvPath := writeSample(t, sampleCSV)
	batchPath := filepath.Join(t.TempDir(), "batch.json")

	batch, err := New(csvPath).Load("2026-09-01", batchPath)
	if err != nil {
		t.Fatal(err)
	}

	resumed, err := LoadBatch(batchPath)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(batch, resumed) {
		t.Fatalf("resumed batch differs:\n%+v\n%+v", batch, resumed)
	}
}

func TestLoad_EmptyResultKeepsPersistedBatch(t *testing.T) {
	csvPath := writeSample(t, sampleCSV)
	batchPath := filepath.Join(t.TempDir(), "batch.json")

	if _, err := New(csvPath).Load("2026-09-01", batchPath); err != nil {
		t.Fatal(err)
	}
	// No rows match the next day; the earlier batch must survive for resume.
	if _, err := New(csvPath).Load("2026-09-02", batchPath); err != nil {
		t.Fatal(err)
	}

	resumed, err := LoadBatch(batchPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(resumed) != 2 {
		t.Fatalf("persisted batch clobbered by zero-match load: %d item(s)", len(resumed))
	}
}

func TestLoad_UnreadableSourceIsFatal(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.csv")).Load("2026-09-01", filepath.Join(t.TempDir(), "b.json"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"'a', 'b'", []string{"a", "b"}},
		{`"one", 'two', "three"`, []string{"one", "two", "three"}},
		{"'solo'", []string{"solo"}},
		{"plain keyword", []string{"plain keyword"}},
		{"'unterminated", []string{"'unterminated"}},
		{"'a' 'b'", []string{"'a' 'b'"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := parseListLiteral(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseListLiteral(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
