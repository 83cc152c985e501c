package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Album palette.
var (
	colorMaroon  = color.NRGBA{R: 0x4b, G: 0x00, B: 0x00, A: 0xff}
	colorPeacock = color.NRGBA{R: 0x00, G: 0x3b, B: 0x5c, A: 0xff}
	colorGold    = color.NRGBA{R: 0xd4, G: 0xaf, B: 0x37, A: 0xff}
	colorLotus   = color.NRGBA{R: 0xe2, G: 0xa7, B: 0xb4, A: 0xff}
	colorAqua    = color.NRGBA{R: 0x5d, G: 0xa3, B: 0xa5, A: 0xff}
	colorNight   = color.NRGBA{R: 0x0b, G: 0x0b, B: 0x14, A: 0xff}
)

// withAlpha returns c with its alpha replaced.
func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// galleryTheme wraps an existing theme with the album palette.
type galleryTheme struct {
	fyne.Theme
}

// Ensure galleryTheme implements fyne.Theme
var _ fyne.Theme = (*galleryTheme)(nil)

func (t *galleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorNight
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return colorGold
	case theme.ColorNameButton:
		return color.NRGBA{A: 0x66}
	case theme.ColorNameHover:
		return withAlpha(colorGold, 0x33)
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf5, G: 0xf0, B: 0xe8, A: 0xff}
	case theme.ColorNameSeparator:
		return withAlpha(colorGold, 0x40)
	}
	return t.Theme.Color(name, variant)
}

func (t *galleryTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameHeadingText {
		return 30
	}
	return t.Theme.Size(name)
}

// NewGalleryTheme creates the album theme on top of baseTheme.
func NewGalleryTheme(baseTheme fyne.Theme) fyne.Theme {
	return &galleryTheme{Theme: baseTheme}
}
