package ui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fygallery/internal/presenter"
	"fygallery/internal/service"
)

func TestTileSizeRhythm(t *testing.T) {
	square := fyne.NewSize(tileBaseWidth, tileBaseWidth)
	portrait := fyne.NewSize(tileBaseWidth, tileBaseWidth*4/3)
	landscape := fyne.NewSize(tileBaseWidth, tileBaseWidth*3/4)

	assert.Equal(t, fyne.NewSize(tileBaseWidth, portrait.Height*2), tileSize(0), "first tile is tall and portrait")
	assert.Equal(t, square, tileSize(1))
	assert.Equal(t, landscape, tileSize(3))
	assert.Equal(t, portrait, tileSize(5))
	assert.Equal(t, fyne.NewSize(tileBaseWidth, landscape.Height*2), tileSize(21))
	assert.Equal(t, fyne.NewSize(tileBaseWidth, square.Height*2), tileSize(14))
	assert.Equal(t, portrait, tileSize(15), "5 wins over 3")

	for i := 0; i < 50; i++ {
		assert.Equal(t, tileSize(i), tileSize(i), "deterministic")
	}
}

func TestRows(t *testing.T) {
	assert.Empty(t, rows(0, 6))
	assert.Equal(t, [][2]int{{0, 6}, {6, 12}, {12, 13}}, rows(13, 6))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, rows(2, 0))
}

func TestQuoted(t *testing.T) {
	assert.Equal(t, "", quoted(""))
	assert.Equal(t, "“Grace in every gaze.”", quoted("Grace in every gaze."))
}

func TestLoadedImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	shown, ok := loadedImage(img, nil)
	assert.True(t, ok)
	assert.Same(t, img, shown)

	for _, tc := range []struct {
		img image.Image
		err error
	}{
		{nil, errors.New("missing")},
		{img, errors.New("decode")},
		{nil, nil},
	} {
		shown, ok := loadedImage(tc.img, tc.err)
		assert.False(t, ok)
		require.NotNil(t, shown)
		assert.NotSame(t, img, shown, "a failed load never reuses an earlier image")
		assert.Equal(t, image.Rect(0, 0, 4, 3), shown.Bounds())
		_, _, _, a := shown.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), a)
	}
}

func TestInfoLine(t *testing.T) {
	assert.Equal(t, "", infoLine(nil))
	assert.Equal(t, "640 × 480  ·  PNG", infoLine(&service.ImageInfo{Width: 640, Height: 480, Format: "png"}))

	full := &service.ImageInfo{
		Width:  4000,
		Height: 3000,
		Format: "jpeg",
		EXIFData: map[string]string{
			"Make":            `"Canon"`,
			"Model":           `"Canon EOS R5"`,
			"ISOSpeedRatings": "100",
			"DateTime":        `"2024:02:14 17:30:00"`,
		},
	}
	assert.Equal(t, "4000 × 3000  ·  JPEG  ·  Canon EOS R5  ·  ISO 100  ·  2024:02:14 17:30:00", infoLine(full))

	full.EXIFData["Make"] = `"NIKON"`
	full.EXIFData["Model"] = `"Z 6"`
	delete(full.EXIFData, "DateTime")
	assert.Equal(t, "4000 × 3000  ·  JPEG  ·  NIKON Z 6  ·  ISO 100", infoLine(full))
}

type recordedIntents struct {
	calls []string
}

func (r *recordedIntents) HandleLightboxKey(key presenter.Key) bool {
	r.calls = append(r.calls, "lightbox:"+string(key))
	return key == presenter.KeyEscape
}
func (r *recordedIntents) Next()         { r.calls = append(r.calls, "next") }
func (r *recordedIntents) Prev()         { r.calls = append(r.calls, "prev") }
func (r *recordedIntents) TogglePlay()   { r.calls = append(r.calls, "play") }
func (r *recordedIntents) ToggleAudio()  { r.calls = append(r.calls, "audio") }
func (r *recordedIntents) OpenLightbox() { r.calls = append(r.calls, "open") }

func TestDispatchKey(t *testing.T) {
	r := &recordedIntents{}
	assert.True(t, dispatchKey(r, false, fyne.KeyRight))
	assert.True(t, dispatchKey(r, false, fyne.KeyLeft))
	assert.True(t, dispatchKey(r, false, fyne.KeySpace))
	assert.True(t, dispatchKey(r, false, fyne.KeyM))
	assert.True(t, dispatchKey(r, false, fyne.KeyF))
	assert.False(t, dispatchKey(r, false, fyne.KeyEscape))
	assert.Equal(t, []string{"next", "prev", "play", "audio", "open"}, r.calls)

	r.calls = nil
	assert.True(t, dispatchKey(r, true, fyne.KeyEscape))
	assert.False(t, dispatchKey(r, true, fyne.KeySpace), "overlay swallows only its own keys")
	assert.Equal(t, []string{"lightbox:Escape", "lightbox:Space"}, r.calls)
}

func TestUILogHandler(t *testing.T) {
	var console bytes.Buffer
	var mirrored []string
	next := slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(newUILogHandler(next, slog.LevelInfo, func(m string) { mirrored = append(mirrored, m) }))

	logger.Debug("sampling failed", "id", "eng1")
	logger.With("component", "audio").Info("playback started")
	logger.Warn("no dataset configured")

	assert.Contains(t, console.String(), "sampling failed")
	assert.Equal(t, []string{
		"playback started component=audio",
		"WARN: no dataset configured",
	}, mirrored)
}

func TestUILogHandlerEnabled(t *testing.T) {
	next := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError})
	h := newUILogHandler(next, slog.LevelInfo, nil)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	assert.NoError(t, h.Handle(context.Background(), r))
}

func TestLogUIManager(t *testing.T) {
	test.NewApp()
	label := widget.NewLabel("")
	up := widget.NewButton("up", nil)
	down := widget.NewButton("down", nil)
	lm := NewLogUIManager(label, up, down, 2)

	lm.UpdateLogDisplay()
	assert.True(t, up.Disabled())
	assert.True(t, down.Disabled())

	lm.AddLogMessage("one")
	lm.AddLogMessage("two")
	lm.AddLogMessage("three")
	assert.Equal(t, "[2/2] three", label.Text)
	assert.Equal(t, "three", lm.Current())

	lm.ShowPreviousLogMessage()
	assert.Equal(t, "[1/2] two", label.Text)
	assert.True(t, up.Disabled())
	assert.False(t, down.Disabled())

	lm.ShowPreviousLogMessage()
	assert.Equal(t, "two", lm.Current())
	lm.ShowNextLogMessage()
	assert.Equal(t, "three", lm.Current())
}

func TestGalleryTheme(t *testing.T) {
	th := NewGalleryTheme(theme.DefaultTheme())
	assert.Equal(t, colorGold, th.Color(theme.ColorNamePrimary, theme.VariantDark))
	assert.Equal(t, colorNight, th.Color(theme.ColorNameBackground, theme.VariantLight))
	require.NotNil(t, th.Color(theme.ColorNameError, theme.VariantDark))
	assert.Equal(t, float32(30), th.Size(theme.SizeNameHeadingText))
}
