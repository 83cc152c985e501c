package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/catalog"
	"fygallery/internal/playlist"
)

const (
	tileBaseWidth float32 = 140
	gridColumns           = 6
)

// tileSize gives the thumbnail at position idx of its section its shape:
// every 5th tile is 3:4 portrait, every 3rd 4:3 landscape, the rest square,
// and every 7th tile is twice as tall.
func tileSize(idx int) fyne.Size {
	w := tileBaseWidth
	h := w
	switch {
	case idx%5 == 0:
		h = w * 4 / 3
	case idx%3 == 0:
		h = w * 3 / 4
	}
	if idx%7 == 0 {
		h *= 2
	}
	return fyne.NewSize(w, h)
}

// rows splits n items into runs of at most cols, returning [start, end) pairs.
func rows(n, cols int) [][2]int {
	if cols <= 0 {
		cols = 1
	}
	var out [][2]int
	for start := 0; start < n; start += cols {
		end := start + cols
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// buildGrid renders one heading and a tile block per section. Empty sections
// keep their heading.
func (a *App) buildGrid(sections []playlist.SectionGroup) fyne.CanvasObject {
	box := container.NewVBox()
	for _, g := range sections {
		heading := canvas.NewText(string(g.Name), colorGold)
		heading.TextSize = 22
		heading.TextStyle = fyne.TextStyle{Bold: true}
		box.Add(heading)

		if len(g.Items) == 0 {
			box.Add(widget.NewLabel("No photos yet."))
			continue
		}
		for _, r := range rows(len(g.Items), gridColumns) {
			line := container.NewHBox()
			for idx := r[0]; idx < r[1]; idx++ {
				line.Add(container.NewVBox(a.buildTile(g.Name, g.Items[idx], idx)))
			}
			box.Add(line)
		}
		box.Add(widget.NewSeparator())
	}
	return box
}

func (a *App) buildTile(section catalog.Section, rec catalog.ImageRecord, idx int) fyne.CanvasObject {
	id := rec.ID
	var tile *tappableImage
	tile = newTappableImage(nil, string(section), func() { a.presenter.Select(id) })
	tile.SetMinSize(tileSize(idx))
	tile.SetResource(a.thumbs.GetThumbnail(rec, func(res fyne.Resource) {
		tile.SetResource(res)
	}))
	return tile
}
