package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fygallery/internal/catalog"
	"fygallery/internal/service"
)

func testServiceFunc(dbPath string, logger *slog.Logger) (*service.Service, error) {
	store, err := catalog.OpenStore(dbPath, logger)
	if err != nil {
		return nil, err
	}
	return service.NewService(store, nil, logger), nil
}

// executeCommandC executes a fresh root command and captures its output.
func executeCommandC(args ...string) (string, string, error) {
	root := NewRootCmd(testServiceFunc)
	actualStdout := new(bytes.Buffer)
	actualStderr := new(bytes.Buffer)
	root.SetOut(actualStdout)
	root.SetErr(actualStderr)
	root.SetArgs(args)

	err := root.Execute()

	return actualStdout.String(), actualStderr.String(), err
}

func writeSolidPNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// setupGallery writes a manifest with three solid images and returns the
// manifest and database paths.
func setupGallery(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	writeSolidPNG(t, filepath.Join(dir, "out1.png"), color.NRGBA{G: 255, A: 255})
	writeSolidPNG(t, filepath.Join(dir, "eng1.png"), color.NRGBA{R: 255, A: 255})
	writeSolidPNG(t, filepath.Join(dir, "can1.png"), color.NRGBA{B: 255, A: 255})
	manifest := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
images:
  - id: out1
    location: out1.png
    section: Outdoor
    caption: Under the endless sky.
  - id: eng1
    location: eng1.png
    section: Engagement
  - id: can1
    location: can1.png
    section: Candid
`), 0644))
	return manifest, filepath.Join(t.TempDir(), "catalog.db")
}

func importGallery(t *testing.T) string {
	t.Helper()
	manifest, dbPath := setupGallery(t)
	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "import", manifest)
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Imported 3 images from "+manifest)
	return dbPath
}

func TestRootHelp(t *testing.T) {
	root := NewRootCmd(testServiceFunc)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "fygallery-cli [command]")
	for _, name := range []string{"import", "list", "rotation", "sections", "sample", "info"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestListEmptyCatalog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "list")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "No images in the catalog.")
}

func TestImportAndList(t *testing.T) {
	dbPath := importGallery(t)

	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "list")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "out1"), "list keeps dataset order")
	assert.Contains(t, lines[1], "Under the endless sky.")
}

func TestRotationCommand(t *testing.T) {
	dbPath := importGallery(t)

	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "rotation")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "eng1 (Engagement)")
	assert.Contains(t, lines[1], "out1 (Outdoor)")
	assert.Contains(t, lines[2], "can1 (Candid)")
}

func TestSectionsCommand(t *testing.T) {
	dbPath := importGallery(t)

	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "sections")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Equal(t, strings.Join([]string{
		"Engagement (1)",
		"  eng1",
		"Traditional (0)",
		"Outdoor (1)",
		"  out1",
		"Candid (1)",
		"  can1",
		"Portraits (0)",
		"",
	}, "\n"), stdout)
}

func TestSampleCommand(t *testing.T) {
	dbPath := importGallery(t)

	t.Run("by id", func(t *testing.T) {
		stdout, stderr, err := executeCommandC("--dbpath", dbPath, "sample", "eng1")
		require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
		assert.Regexp(t, `^#f[ef]0[01]0[01]\n$`, stdout)
	})

	t.Run("by location", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "white.png")
		writeSolidPNG(t, path, color.White)
		stdout, stderr, err := executeCommandC("--dbpath", dbPath, "sample", "--width", "4", path)
		require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
		assert.Regexp(t, `^#f[ef]f[ef]f[ef]\n$`, stdout)
	})

	t.Run("transparent image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clear.png")
		writeSolidPNG(t, path, color.NRGBA{R: 255, A: 10})
		_, _, err := executeCommandC("--dbpath", dbPath, "sample", path)
		assert.Error(t, err)
	})

	t.Run("bad alpha", func(t *testing.T) {
		_, _, err := executeCommandC("--dbpath", dbPath, "sample", "--alpha", "300", "eng1")
		assert.ErrorContains(t, err, "--alpha")
	})
}

func TestInfoCommand(t *testing.T) {
	dbPath := importGallery(t)

	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "info", "can1")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "Format: png")
	assert.Contains(t, stdout, "Dimensions: 8x8")

	_, _, err = executeCommandC("--dbpath", dbPath, "info", "nope.png")
	assert.Error(t, err)
}

func TestImportRejectsBadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
[[image]]
id = "x"
location = "x.jpg"
section = "Reception"
`), 0644))
	_, _, err := executeCommandC("--dbpath", filepath.Join(dir, "catalog.db"), "import", manifest)
	assert.ErrorIs(t, err, catalog.ErrUnknownSection)
}

func TestFailedCommandReleasesCatalog(t *testing.T) {
	dbPath := importGallery(t)

	_, _, err := executeCommandC("--dbpath", dbPath, "info", "missing.png")
	require.Error(t, err)

	stdout, stderr, err := executeCommandC("--dbpath", dbPath, "rotation")
	require.NoError(t, err, "stdout: %s, stderr: %s", stdout, stderr)
	assert.Contains(t, stdout, "eng1")
}
