package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		label    string
		expected Section
		wantErr  bool
	}{
		{"Engagement", Engagement, false},
		{"outdoor", Outdoor, false},
		{"  Portraits ", Portraits, false},
		{"Reception", "", true},
		{"", "", true},
	}
	for _, test := range tests {
		got, err := ParseSection(test.label)
		if test.wantErr {
			assert.ErrorIs(t, err, ErrUnknownSection, "label %q", test.label)
			continue
		}
		require.NoError(t, err, "label %q", test.label)
		assert.Equal(t, test.expected, got)
	}
}

func TestAllSectionsPriorityFirst(t *testing.T) {
	sections := AllSections()
	require.Len(t, sections, 5)
	assert.Equal(t, PrioritySection, sections[0])
	assert.Equal(t, []Section{Engagement, Traditional, Outdoor, Candid, Portraits}, sections)
}

func TestValidate(t *testing.T) {
	t.Run("fills alt text per section", func(t *testing.T) {
		got, err := Validate([]ImageRecord{
			{ID: "a", Location: "a.jpg", Section: "engagement"},
			{ID: "b", Location: "b.jpg", Section: Engagement, AltText: "custom"},
			{ID: "c", Location: "c.jpg", Section: Outdoor},
		})
		require.NoError(t, err)
		assert.Equal(t, Engagement, got[0].Section)
		assert.Equal(t, "Engagement photo 1", got[0].AltText)
		assert.Equal(t, "custom", got[1].AltText)
		assert.Equal(t, "Outdoor photo 1", got[2].AltText)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := Validate([]ImageRecord{
			{ID: "a", Location: "a.jpg", Section: Candid},
			{ID: "a", Location: "b.jpg", Section: Candid},
		})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("missing location", func(t *testing.T) {
		_, err := Validate([]ImageRecord{{ID: "a", Section: Candid}})
		assert.Error(t, err)
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := Validate([]ImageRecord{{ID: "a", Location: "a.jpg", Section: "Reception"}})
		assert.ErrorIs(t, err, ErrUnknownSection)
	})
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gallery.toml", `
[[image]]
id = "eng1"
location = "photos/eng1.jpg"
section = "Engagement"
caption = "Two souls, one frame."

[[image]]
id = "trad1"
location = "https://example.com/trad1.jpg"
section = "Traditional"
alt = "Traditional ceremony"
`)

	records, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "eng1", records[0].ID)
	assert.Equal(t, filepath.Join(dir, "photos", "eng1.jpg"), records[0].Location)
	assert.Equal(t, "Two souls, one frame.", records[0].Caption)
	assert.Equal(t, "Engagement photo 1", records[0].AltText)

	assert.Equal(t, "https://example.com/trad1.jpg", records[1].Location)
	assert.Equal(t, "Traditional ceremony", records[1].AltText)
}

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gallery.yaml", `
images:
  - id: out1
    location: /abs/out1.jpg
    section: Outdoor
    caption: Under the endless sky.
  - id: can1
    location: can1.jpg
    section: candid
`)

	records, err := (Manifest{Path: path}).Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/abs/out1.jpg", records[0].Location)
	assert.Equal(t, Candid, records[1].Section)
	assert.Equal(t, filepath.Join(dir, "can1.jpg"), records[1].Location)
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "gallery.json", `{}`)
	_, err = LoadManifest(bad)
	assert.ErrorContains(t, err, "unsupported manifest format")

	unknown := writeFile(t, dir, "unknown.toml", `
[[image]]
id = "x"
location = "x.jpg"
section = "Reception"
`)
	_, err = LoadManifest(unknown)
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.jpg"))
	assert.True(t, IsRemote("HTTP://example.com/a.jpg"))
	assert.False(t, IsRemote("/tmp/a.jpg"))
	assert.False(t, IsRemote("photos/a.jpg"))
}

func TestStoreImportAndRead(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := OpenStore(dbPath, nil)
	require.NoError(t, err)
	defer store.Close()

	empty, err := store.Records()
	require.NoError(t, err)
	assert.Empty(t, empty)

	input := make([]ImageRecord, 0, 12)
	for i := 0; i < 12; i++ {
		section := Outdoor
		if i%4 == 0 {
			section = Engagement
		}
		input = append(input, ImageRecord{
			ID:       "img" + string(rune('a'+i)),
			Location: "photo.jpg",
			Section:  section,
		})
	}
	n, err := store.Import(input)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	got, err := store.Records()
	require.NoError(t, err)
	require.Len(t, got, 12)
	for i := range input {
		assert.Equal(t, input[i].ID, got[i].ID, "import order must be kept")
	}

	rec, err := store.Get("imgc")
	require.NoError(t, err)
	assert.Equal(t, Outdoor, rec.Section)

	_, err = store.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreImportReplaces(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := OpenStore(dbPath, nil)
	require.NoError(t, err)

	_, err = store.Import([]ImageRecord{
		{ID: "a", Location: "a.jpg", Section: Candid},
		{ID: "b", Location: "b.jpg", Section: Candid},
	})
	require.NoError(t, err)
	_, err = store.Import([]ImageRecord{{ID: "c", Location: "c.jpg", Section: Portraits}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenStore(dbPath, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Records()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	_, err = reopened.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreImportRejectsInvalid(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "catalog.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Import([]ImageRecord{
		{ID: "a", Location: "a.jpg", Section: Candid},
		{ID: "a", Location: "a.jpg", Section: Candid},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}
