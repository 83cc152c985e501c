// Package ui  Shortcuts for keyboard actions
package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/presenter"
)

// intents is the part of the presenter the keyboard drives.
type intents interface {
	HandleLightboxKey(key presenter.Key) bool
	Next()
	Prev()
	TogglePlay()
	ToggleAudio()
	OpenLightbox()
}

func (a *App) buildKeyboardShortcuts() {
	// ctrl+q to quit application
	a.win.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyQ,
		Modifier: a.mainModKey,
	}, func(_ fyne.Shortcut) { a.app.Quit() })

	a.win.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		dispatchKey(a.presenter, a.presenter.Snapshot().IsLightboxOpen, key.Name)
	})
}

// dispatchKey maps a typed key to an intent. While the lightbox is open only
// its own keys apply.
func dispatchKey(p intents, lightboxOpen bool, name fyne.KeyName) bool {
	if lightboxOpen {
		return p.HandleLightboxKey(presenter.Key(name))
	}
	switch name {
	case fyne.KeyRight:
		p.Next()
	case fyne.KeyLeft:
		p.Prev()
	case fyne.KeySpace, fyne.KeyP:
		p.TogglePlay()
	case fyne.KeyM:
		p.ToggleAudio()
	case fyne.KeyF, fyne.KeyReturn:
		p.OpenLightbox()
	default:
		return false
	}
	return true
}

func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}
	return falseVal
}

func (a *App) showShortcuts() {
	shortcuts := []string{
		"Ctrl+Q",
		"Arrow Right", "Arrow Left",
		"Space or P", "M", "F or Enter",
		"Esc", "Arrow Left / Right",
	}
	descriptions := []string{
		"Quit Application",
		"Next Image", "Previous Image",
		"Play / Pause Slideshow", "Toggle Ambient Audio", "Open Lightbox",
		"Close Lightbox", "Navigate inside Lightbox",
	}

	win := a.app.NewWindow("Keyboard Shortcuts")
	table := widget.NewTable(
		func() (int, int) { return len(descriptions) + 1, 2 }, // +1 for header row
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			isHeader := id.Row == 0
			dataRowIndex := id.Row - 1

			if id.Col == 0 {
				label.SetText(ternary(isHeader, "Description", descriptions[dataRowIndex]))
			} else {
				label.SetText(ternary(isHeader, "Shortcut", shortcuts[dataRowIndex]))
			}
			label.TextStyle.Bold = isHeader
		},
	)
	table.SetColumnWidth(0, 250)
	table.SetColumnWidth(1, 200)
	win.SetContent(table)
	win.Resize(fyne.NewSize(460, 340))
	win.Show()
}
