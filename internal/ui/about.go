package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/playlist"
)

// About is the Help > About dialog with a per-section photo count.
type About struct {
	title     string
	parent    fyne.Window
	container *fyne.Container
	d         dialog.Dialog
}

func NewAbout(parent fyne.Window, title, subtitle string, sections []playlist.SectionGroup) *About {
	a := &About{
		title:  title,
		parent: parent,
	}

	img := canvas.NewImageFromResource(theme.FileImageIcon())
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(96, 96))

	vbox := container.NewVBox(img, widget.NewLabelWithStyle(subtitle, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	total := 0
	for _, g := range sections {
		vbox.Add(widget.NewLabel(fmt.Sprintf("%s: %d", g.Name, len(g.Items))))
		total += len(g.Items)
	}
	vbox.Add(widget.NewLabelWithStyle(fmt.Sprintf("%d photos", total), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))

	ok := container.NewHBox(
		layout.NewSpacer(),
		widget.NewButton("OK", func() { a.Hide() }),
		layout.NewSpacer(),
	)

	a.container = container.NewBorder(nil, ok, nil, nil, vbox)

	return a
}

func (a *About) Hide() {
	a.d.Hide()
}

func (a *About) Show() {
	a.d = dialog.NewCustomWithoutButtons(a.title, a.container, a.parent)
	a.d.Show()
}
