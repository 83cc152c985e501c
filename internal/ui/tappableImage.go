package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// tappableImage displays an image, optionally with a section chip in the
// top-left corner, and handles tap events.
type tappableImage struct {
	widget.BaseWidget
	image    *canvas.Image
	chip     *fyne.Container
	hover    *canvas.Rectangle
	onTapped func()
}

// newTappableImage creates a new tappableImage widget. An empty label shows no chip.
func newTappableImage(res fyne.Resource, label string, onTapped func()) *tappableImage {
	ti := &tappableImage{
		image:    canvas.NewImageFromResource(res),
		onTapped: onTapped,
	}
	ti.image.FillMode = canvas.ImageFillContain
	ti.hover = canvas.NewRectangle(withAlpha(colorGold, 0x30))
	ti.hover.Hide()
	if label != "" {
		bg := canvas.NewRectangle(withAlpha(colorGold, 0xe6))
		bg.CornerRadius = 8
		text := canvas.NewText(label, colorNight)
		text.TextSize = 10
		text.TextStyle = fyne.TextStyle{Bold: true}
		ti.chip = container.NewStack(bg, container.NewPadded(text))
	}
	ti.ExtendBaseWidget(ti)
	return ti
}

func (t *tappableImage) CreateRenderer() fyne.WidgetRenderer {
	objects := []fyne.CanvasObject{t.image, t.hover}
	if t.chip != nil {
		objects = append(objects, container.NewVBox(container.NewHBox(t.chip)))
	}
	return widget.NewSimpleRenderer(container.NewStack(objects...))
}

func (t *tappableImage) Tapped(_ *fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

func (t *tappableImage) MouseIn(_ *desktop.MouseEvent) {
	if t.onTapped != nil {
		t.hover.Show()
	}
}

func (t *tappableImage) MouseMoved(_ *desktop.MouseEvent) {}

func (t *tappableImage) MouseOut() {
	t.hover.Hide()
}

// SetResource updates the image resource and refreshes.
func (t *tappableImage) SetResource(res fyne.Resource) {
	t.image.Resource = res
	t.image.Image = nil
	t.image.Refresh()
}

// SetImage shows a decoded image.
func (t *tappableImage) SetImage(img image.Image) {
	t.image.Resource = nil
	t.image.Image = img
	t.image.Refresh()
}

// SetMinSize sets the minimum size of the tappable image.
func (t *tappableImage) SetMinSize(size fyne.Size) {
	t.image.SetMinSize(size)
}

var _ fyne.Tappable = (*tappableImage)(nil)
var _ desktop.Hoverable = (*tappableImage)(nil)
