package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/catalog"
	"fygallery/internal/service"
)

// lightbox is the fullscreen overlay on top of the gallery content.
type lightbox struct {
	root    *fyne.Container
	view    *zoomView
	caption *canvas.Text
	info    *canvas.Text
}

func newLightbox(onClose, onPrev, onNext func()) *lightbox {
	lb := &lightbox{view: newZoomView()}

	lb.caption = canvas.NewText("", colorGold)
	lb.caption.TextSize = 18
	lb.caption.TextStyle = fyne.TextStyle{Italic: true}
	lb.caption.Alignment = fyne.TextAlignCenter

	lb.info = canvas.NewText("", withAlpha(colorGold, 0x99))
	lb.info.TextSize = 12
	lb.info.Alignment = fyne.TextAlignCenter

	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), onClose)
	prevBtn := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), onPrev)
	nextBtn := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), onNext)

	dim := canvas.NewRectangle(color.NRGBA{A: 0xe6})
	lb.root = container.NewStack(
		dim,
		container.NewBorder(
			container.NewHBox(layout.NewSpacer(), closeBtn),
			container.NewPadded(container.NewVBox(lb.caption, lb.info)),
			container.NewCenter(prevBtn),
			container.NewCenter(nextBtn),
			lb.view,
		),
	)
	lb.root.Hide()
	return lb
}

// Show displays rec. The image is set separately once it is loaded.
func (lb *lightbox) Show(rec catalog.ImageRecord) {
	lb.caption.Text = quoted(rec.Caption)
	lb.caption.Refresh()
	if !lb.root.Visible() {
		lb.root.Show()
		lb.view.Fit()
	}
}

func (lb *lightbox) Hide() {
	lb.root.Hide()
}

func (lb *lightbox) SetImage(img image.Image) {
	lb.view.SetImage(img)
}

func (lb *lightbox) SetInfo(line string) {
	lb.info.Text = line
	lb.info.Refresh()
}

// infoLine renders dimensions, format and the camera EXIF fields that are
// present, e.g. "4000 × 3000  ·  JPEG  ·  Canon EOS R5  ·  ISO 100".
func infoLine(info *service.ImageInfo) string {
	if info == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("%d × %d", info.Width, info.Height)}
	if info.Format != "" {
		parts = append(parts, strings.ToUpper(info.Format))
	}
	exifValue := func(name string) string {
		return strings.TrimSpace(strings.Trim(info.EXIFData[name], `"`))
	}
	maker, model := exifValue("Make"), exifValue("Model")
	camera := strings.TrimSpace(maker + " " + model)
	if maker != "" && strings.HasPrefix(model, maker) {
		camera = model
	}
	if camera != "" {
		parts = append(parts, camera)
	}
	if iso := exifValue("ISOSpeedRatings"); iso != "" {
		parts = append(parts, "ISO "+iso)
	}
	if taken := exifValue("DateTime"); taken != "" {
		parts = append(parts, taken)
	}
	return strings.Join(parts, "  ·  ")
}

// quoted wraps a caption in typographic quotes; empty stays empty.
func quoted(caption string) string {
	if caption == "" {
		return ""
	}
	return "“" + caption + "”"
}
