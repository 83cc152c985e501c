package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom        float32 = 0.1
	maxZoom        float32 = 8.0
	zoomScrollStep float32 = 0.1
)

// zoomView shows an image fitted to its area. Scrolling zooms around the
// centre, dragging pans and a double tap fits the image again.
type zoomView struct {
	widget.BaseWidget

	img    image.Image
	raster *canvas.Raster

	zoom   float32
	offset fyne.Position
	fitted bool // zoom and offset still follow the widget size

	panning bool
	lastPos fyne.Position
}

func newZoomView() *zoomView {
	z := &zoomView{zoom: 1, fitted: true}
	z.raster = canvas.NewRaster(z.draw)
	z.ExtendBaseWidget(z)
	return z
}

// SetImage replaces the image and fits it to the view.
func (z *zoomView) SetImage(img image.Image) {
	z.img = img
	z.Fit()
}

// Fit scales the image to fit the view and centres it.
func (z *zoomView) Fit() {
	z.fitted = true
	z.fit(z.Size())
	z.Refresh()
}

func (z *zoomView) fit(size fyne.Size) {
	z.offset = fyne.Position{}
	z.zoom = 1
	if z.img == nil || size.Width <= 0 || size.Height <= 0 {
		return
	}
	b := z.img.Bounds()
	imgW, imgH := float32(b.Dx()), float32(b.Dy())
	if imgW == 0 || imgH == 0 {
		return
	}
	z.zoom = min(size.Width/imgW, size.Height/imgH)
	z.offset = fyne.NewPos((size.Width-imgW*z.zoom)/2, (size.Height-imgH*z.zoom)/2)
}

func (z *zoomView) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if z.img == nil || w <= 0 || h <= 0 || z.zoom <= 0 {
		return dst
	}
	// The raster is drawn in device pixels; offset and zoom are in canvas units.
	scale := float32(1)
	if size := z.Size(); size.Width > 0 {
		scale = float32(w) / size.Width
	}
	src := z.img.Bounds()
	inv := 1 / (z.zoom * scale)
	ox, oy := z.offset.X*scale, z.offset.Y*scale

	rgba, isRGBA := z.img.(*image.RGBA)
	for dy := 0; dy < h; dy++ {
		sy := int((float32(dy) - oy) * inv)
		if sy < 0 || sy >= src.Dy() {
			continue
		}
		for dx := 0; dx < w; dx++ {
			sx := int((float32(dx) - ox) * inv)
			if sx < 0 || sx >= src.Dx() {
				continue
			}
			if isRGBA {
				i := rgba.PixOffset(src.Min.X+sx, src.Min.Y+sy)
				j := dst.PixOffset(dx, dy)
				copy(dst.Pix[j:j+4], rgba.Pix[i:i+4])
				continue
			}
			dst.Set(dx, dy, z.img.At(src.Min.X+sx, src.Min.Y+sy))
		}
	}
	return dst
}

func (z *zoomView) CreateRenderer() fyne.WidgetRenderer {
	return &zoomViewRenderer{z: z}
}

func (z *zoomView) Scrolled(ev *fyne.ScrollEvent) {
	if z.img == nil {
		return
	}
	z.fitted = false
	size := z.Size()
	cx, cy := size.Width/2, size.Height/2
	ix := (cx - z.offset.X) / z.zoom
	iy := (cy - z.offset.Y) / z.zoom

	if ev.Scrolled.DY > 0 {
		z.zoom *= 1 + zoomScrollStep
	} else if ev.Scrolled.DY < 0 {
		z.zoom /= 1 + zoomScrollStep
	}
	z.zoom = max(minZoom, min(maxZoom, z.zoom))

	z.offset = fyne.NewPos(cx-ix*z.zoom, cy-iy*z.zoom)
	z.Refresh()
}

func (z *zoomView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		z.panning = true
		z.lastPos = ev.Position
	}
}

func (z *zoomView) MouseUp(_ *desktop.MouseEvent) {
	z.panning = false
}

func (z *zoomView) Dragged(ev *fyne.DragEvent) {
	if !z.panning {
		return
	}
	z.fitted = false
	z.offset = z.offset.Add(ev.Position.Subtract(z.lastPos))
	z.lastPos = ev.Position
	z.Refresh()
}

func (z *zoomView) DragEnd() {
	z.panning = false
}

func (z *zoomView) DoubleTapped(_ *fyne.PointEvent) {
	z.Fit()
}

type zoomViewRenderer struct{ z *zoomView }

func (r *zoomViewRenderer) Layout(size fyne.Size) {
	if r.z.fitted {
		r.z.fit(size)
	}
	r.z.raster.Resize(size)
}

func (r *zoomViewRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 150) }
func (r *zoomViewRenderer) Refresh()                     { canvas.Refresh(r.z.raster) }
func (r *zoomViewRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.z.raster} }
func (r *zoomViewRenderer) Destroy()                     {}

var _ fyne.Widget = (*zoomView)(nil)
var _ fyne.Scrollable = (*zoomView)(nil)
var _ fyne.Draggable = (*zoomView)(nil)
var _ fyne.DoubleTappable = (*zoomView)(nil)
