package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/catalog"
	"fygallery/internal/slideshow"
)

// tintColor is the translucent glow behind the hero image.
func tintColor(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x66}
}

func (a *App) buildHero() fyne.CanvasObject {
	backdrop := container.NewGridWithRows(2,
		canvas.NewVerticalGradient(withAlpha(colorMaroon, 0x99), withAlpha(colorPeacock, 0x66)),
		canvas.NewVerticalGradient(withAlpha(colorPeacock, 0x66), withAlpha(colorNight, 0xbf)),
	)
	a.heroTint = canvas.NewRadialGradient(tintColor(color.RGBA{}), color.Transparent)

	a.heroImage = newTappableImage(nil, "", a.presenter.OpenLightbox)
	a.heroImage.SetMinSize(fyne.NewSize(720, 405))

	a.playBtn = widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), a.presenter.TogglePlay)
	a.audioBtn = widget.NewButtonWithIcon("Audio", theme.VolumeMuteIcon(), a.presenter.ToggleAudio)
	lightboxBtn := widget.NewButtonWithIcon("", theme.ViewFullScreenIcon(), a.presenter.OpenLightbox)
	prevBtn := widget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.presenter.Prev)
	nextBtn := widget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.presenter.Next)

	a.caption = canvas.NewText("", colorGold)
	a.caption.TextSize = 20
	a.caption.TextStyle = fyne.TextStyle{Italic: true}
	a.caption.Alignment = fyne.TextAlignCenter
	a.positionLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	frame := container.NewBorder(
		container.NewHBox(layout.NewSpacer(), a.playBtn, a.audioBtn, lightboxBtn),
		container.NewVBox(a.caption, a.positionLabel),
		container.NewCenter(prevBtn),
		container.NewCenter(nextBtn),
		a.heroImage,
	)
	return container.NewStack(backdrop, a.heroTint, container.NewPadded(frame))
}

func (a *App) applyTint(c color.RGBA) {
	a.heroTint.StartColor = tintColor(c)
	a.heroTint.Refresh()
}

// renderState brings the hero and the lightbox in line with s. Must run on
// the UI thread.
func (a *App) renderState(s slideshow.Snapshot) {
	if s.IsAutoPlaying {
		a.playBtn.SetText("Pause")
		a.playBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		a.playBtn.SetText("Play")
		a.playBtn.SetIcon(theme.MediaPlayIcon())
	}
	if s.IsAudioEnabled {
		a.audioBtn.SetIcon(theme.VolumeUpIcon())
	} else {
		a.audioBtn.SetIcon(theme.VolumeMuteIcon())
	}

	if !s.HasCurrent {
		a.shownID = ""
		a.loadGen.Add(1)
		a.heroImage.SetResource(theme.FileImageIcon())
		a.caption.Text = ""
		a.caption.Refresh()
		a.positionLabel.SetText("No photos")
		a.win.SetTitle(a.cfg.UI.Title)
		a.lightbox.Hide()
		return
	}

	rec := s.Current
	a.caption.Text = quoted(rec.Caption)
	a.caption.Refresh()
	a.positionLabel.SetText(fmt.Sprintf("%d / %d  ·  %s", s.CurrentIndex+1, s.Length, rec.Section))
	a.win.SetTitle(fmt.Sprintf("%s - %s", a.cfg.UI.Title, rec.AltText))

	if rec.ID != a.shownID {
		a.shownID = rec.ID
		a.loadHeroImage(rec)
	}
	if s.IsLightboxOpen {
		a.lightbox.Show(rec)
		if rec.ID != a.infoID {
			a.infoID = rec.ID
			a.loadLightboxInfo(rec)
		}
	} else {
		a.lightbox.Hide()
	}
}

// loadHeroImage decodes rec off the UI thread. A load that finishes after a
// newer one was started is dropped.
func (a *App) loadHeroImage(rec catalog.ImageRecord) {
	gen := a.loadGen.Add(1)
	go func() {
		img, err := a.presenter.Open(context.Background(), rec)
		fyne.Do(func() {
			if gen != a.loadGen.Load() {
				return
			}
			shown, ok := loadedImage(img, err)
			if !ok {
				a.logger.Debug("hero image unavailable", "id", rec.ID, "err", err)
				a.heroImage.SetResource(theme.BrokenImageIcon())
			} else {
				a.heroImage.SetImage(shown)
			}
			a.lightbox.SetImage(shown)
		})
	}()
}

// loadedImage picks what the hero and the lightbox show for a finished load.
// A failed load shows a blank placeholder so the previous record's pixels
// never sit under the new caption.
func loadedImage(img image.Image, err error) (image.Image, bool) {
	if err != nil || img == nil {
		blank := image.NewNRGBA(image.Rect(0, 0, 4, 3))
		for i := 0; i < len(blank.Pix); i += 4 {
			blank.Pix[i], blank.Pix[i+1], blank.Pix[i+2], blank.Pix[i+3] = colorNight.R, colorNight.G, colorNight.B, colorNight.A
		}
		return blank, false
	}
	return img, true
}

// loadLightboxInfo reads rec's metadata off the UI thread for the info line
// under the lightbox caption.
func (a *App) loadLightboxInfo(rec catalog.ImageRecord) {
	gen := a.infoGen.Add(1)
	a.lightbox.SetInfo("")
	go func() {
		info, err := a.images.GetImageInfo(context.Background(), rec.Location)
		fyne.Do(func() {
			if gen != a.infoGen.Load() {
				return
			}
			if err != nil {
				a.logger.Debug("image info unavailable", "id", rec.ID, "err", err)
				return
			}
			a.lightbox.SetInfo(infoLine(info))
		})
	}()
}
