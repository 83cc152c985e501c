// Package ui  Setup for the FyGallery Application
package ui

import (
	"errors"
	"image/color"
	"log/slog"
	"runtime"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"fygallery/internal/ambient"
	"fygallery/internal/audio"
	"fygallery/internal/config"
	"fygallery/internal/presenter"
	"fygallery/internal/service"
	"fygallery/internal/slideshow"
)

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app        fyne.App
	win        fyne.Window
	cfg        *config.Config
	logger     *slog.Logger
	mainModKey fyne.KeyModifier

	presenter    *presenter.Presenter
	images       *service.ImageService
	thumbs       *ThumbnailManager
	logUIManager *LogUIManager

	heroTint      *canvas.RadialGradient
	heroImage     *tappableImage
	caption       *canvas.Text
	positionLabel *widget.Label
	playBtn       *widget.Button
	audioBtn      *widget.Button
	lightbox      *lightbox

	shownID string
	loadGen atomic.Uint64 // Latest hero image load; older loads are dropped
	infoID  string
	infoGen atomic.Uint64
}

// CreateApplication is the GUI entrypoint. It only returns early when the
// dataset cannot be loaded; otherwise it blocks until the window is closed.
func CreateApplication(cfg *config.Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	records, err := service.LoadDataset(cfg.Dataset, logger)
	noDataset := errors.Is(err, service.ErrNoDataset)
	if err != nil && !noDataset {
		return err
	}

	a := app.NewWithID("io.github.fygallery")
	a.Settings().SetTheme(NewGalleryTheme(a.Settings().Theme()))

	ui := &App{app: a, cfg: cfg}
	ui.win = a.NewWindow(cfg.UI.Title)
	// set main mod key to super on darwin hosts, else set it to ctrl
	if runtime.GOOS == "darwin" {
		ui.mainModKey = fyne.KeyModifierSuper
	} else {
		ui.mainModKey = fyne.KeyModifierControl
	}

	status := ui.buildStatusBar()
	ui.logger = slog.New(newUILogHandler(logger.Handler(), slog.LevelInfo, ui.statusSink()))

	images := service.NewImageService(cfg.Dataset.Placeholder, ui.logger)
	ui.images = images
	ui.thumbs = NewThumbnailManager(images, ui.logger)
	sampler := ambient.NewSampler(images, cfg.Ambient.SampleWidth, uint8(cfg.Ambient.AlphaThreshold), ui.logger)
	player := audio.NewPlayer(cfg.Audio.Location, audio.NewMPVBackend, ui.logger)
	ctrl := slideshow.NewController(nil, cfg.Interval(), ui.logger)

	ui.presenter = presenter.New(ctrl, sampler, player, images, ui.logger)
	ui.presenter.SetDataset(records)
	ui.lightbox = newLightbox(ui.presenter.CloseLightbox, ui.presenter.Prev, ui.presenter.Next)

	ui.win.SetContent(ui.buildMainUI(status))
	ui.buildKeyboardShortcuts()

	// Subscribed only now: notifications before the event loop runs would
	// reach fyne.Do from the main goroutine.
	ui.presenter.OnState(func(s slideshow.Snapshot) {
		fyne.Do(func() { ui.renderState(s) })
	})
	ui.presenter.OnColor(func(c color.RGBA) {
		fyne.Do(func() { ui.applyTint(c) })
	})
	ui.renderState(ui.presenter.Snapshot())
	ui.applyTint(ui.presenter.AmbientColor())

	a.Lifecycle().SetOnStopped(ui.presenter.Close)

	ui.win.Resize(fyne.NewSize(float32(cfg.UI.Width), float32(cfg.UI.Height)))
	ui.win.CenterOnScreen()
	ui.win.SetFullScreen(cfg.UI.Fullscreen)

	if noDataset {
		ui.logger.Warn("no dataset configured, set dataset.manifest, dataset.directory or dataset.catalog")
	} else {
		ui.logger.Info("gallery ready", "photos", len(records))
	}

	ui.win.ShowAndRun()
	return nil
}

// statusSink forwards log lines to the status bar in order without blocking
// the caller. Lines are dropped while the queue is full.
func (a *App) statusSink() func(string) {
	msgs := make(chan string, 256)
	go func() {
		for m := range msgs {
			fyne.Do(func() { a.logUIManager.AddLogMessage(m) })
		}
	}()
	return func(m string) {
		select {
		case msgs <- m:
		default:
		}
	}
}

func (a *App) buildStatusBar() fyne.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), nil)
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), nil)
	a.logUIManager = NewLogUIManager(label, up, down, DefaultMaxLogMessages)
	up.OnTapped = a.logUIManager.ShowPreviousLogMessage
	down.OnTapped = a.logUIManager.ShowNextLogMessage
	a.logUIManager.UpdateLogDisplay()

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, container.NewHBox(up, down), nil, label),
	)
}

func (a *App) buildHeader() fyne.CanvasObject {
	title := canvas.NewText(a.cfg.UI.Title, colorLotus)
	title.TextSize = 36
	title.Alignment = fyne.TextAlignCenter
	subtitle := canvas.NewText(a.cfg.UI.Subtitle, colorAqua)
	subtitle.Alignment = fyne.TextAlignCenter
	return container.NewPadded(container.NewVBox(title, subtitle))
}

func (a *App) buildMainUI(status fyne.CanvasObject) fyne.CanvasObject {
	a.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File"),
		fyne.NewMenu("View",
			fyne.NewMenuItem("Next Image", a.presenter.Next),
			fyne.NewMenuItem("Previous Image", a.presenter.Prev),
			fyne.NewMenuItem("Play / Pause", a.presenter.TogglePlay),
			fyne.NewMenuItem("Toggle Audio", a.presenter.ToggleAudio),
			fyne.NewMenuItem("Open Lightbox", a.presenter.OpenLightbox),
			fyne.NewMenuItem("Toggle Fullscreen", func() { a.win.SetFullScreen(!a.win.FullScreen()) }),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", func() {
				NewAbout(a.win, "About "+a.cfg.UI.Title, a.cfg.UI.Subtitle, a.presenter.Sections()).Show()
			}),
		),
	))

	footer := canvas.NewText("Royal water, lotus and peacock.", withAlpha(colorGold, 0x99))
	footer.TextSize = 11
	footer.Alignment = fyne.TextAlignCenter

	page := container.NewVBox(
		a.buildHeader(),
		a.buildHero(),
		container.NewPadded(a.buildGrid(a.presenter.Sections())),
		container.NewPadded(footer),
	)
	main := container.NewBorder(nil, status, nil, nil, container.NewVScroll(page))
	return container.NewStack(main, a.lightbox.root)
}
