package scan

import (
	"os"
	"path/filepath"
	"testing"

	"fygallery/internal/catalog"
)

func TestIsImage(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"image.PNG", true},
		{"image.jpg", true},
		{"image.jpeg", true},
		{"image.gif", true},
		{"image.txt", false},
		{"image", false},
		{".jpeg", true},
	}

	for _, test := range tests {
		result := IsImage(test.name)
		if result != test.expected {
			t.Errorf("IsImage(%s) = %v; want %v", test.name, result, test.expected)
		}
	}
}

func TestRun(t *testing.T) {
	rootDir := t.TempDir()

	mkdir := func(parts ...string) string {
		dir := filepath.Join(append([]string{rootDir}, parts...)...)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
		return dir
	}
	write := func(path string, size int) {
		content := make([]byte, size)
		if size > 0 {
			content[0] = 'a'
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("Failed to write test file %s: %v", path, err)
		}
	}

	eng := mkdir("Engagement")
	outdoor := mkdir("outdoor", "trip")
	unknown := mkdir("Reception")

	write(filepath.Join(rootDir, "loose.jpg"), 10) // not in a section
	write(filepath.Join(eng, "eng1.jpg"), 10)      // kept
	write(filepath.Join(eng, "eng2.PNG"), 10)      // kept
	write(filepath.Join(eng, "empty.gif"), 0)      // 0-byte, skipped
	write(filepath.Join(eng, "notes.txt"), 10)     // not an image
	write(filepath.Join(outdoor, "eng1.jpeg"), 10) // duplicate stem
	write(filepath.Join(unknown, "cake.jpg"), 10)  // unknown section

	records, err := Run(rootDir, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	want := []struct {
		id      string
		section catalog.Section
	}{
		{"eng1", catalog.Engagement},
		{"eng2", catalog.Engagement},
		{"eng1-2", catalog.Outdoor},
	}
	for i, w := range want {
		if records[i].ID != w.id || records[i].Section != w.section {
			t.Errorf("record %d = {%s %s}; want {%s %s}", i, records[i].ID, records[i].Section, w.id, w.section)
		}
		if !filepath.IsAbs(records[i].Location) {
			t.Errorf("record %d location %q is not absolute", i, records[i].Location)
		}
		if records[i].AltText == "" {
			t.Errorf("record %d has no alt text", i)
		}
	}
}

func TestDirectorySource(t *testing.T) {
	rootDir := t.TempDir()
	dir := filepath.Join(rootDir, "Candid")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "can1.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var src catalog.Source = Directory{Root: rootDir}
	records, err := src.Records()
	if err != nil {
		t.Fatalf("Records returned error: %v", err)
	}
	if len(records) != 1 || records[0].Section != catalog.Candid {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestRunMissingRoot(t *testing.T) {
	records, err := Run(filepath.Join(t.TempDir(), "missing"), nil)
	if err != nil {
		t.Fatalf("missing root should degrade to an empty dataset, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
