package fyne

import (
	"fmt"
	"image"
	"image/color"
	"net/url"
	"strings"
	"sync"
	"time"

	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/pinkcrab/jukebox/internal/config"
	"github.com/pinkcrab/jukebox/internal/domain"
	"github.com/pinkcrab/jukebox/internal/ports"
	"github.com/pinkcrab/jukebox/internal/service"
)

const appName = "Jukebox"

// MainWindow is the player window. It is a dumb view: it renders what the
// presenter tells it to and forwards every gesture back to the presenter.
type MainWindow struct {
	app    fyneapp.App
	window fyneapp.Window
	cfg    config.TracklistConfig

	// Now playing
	titleLabel  *widget.Label
	artistLabel *widget.Label
	albumLabel  *widget.Label
	pageLink    *widget.Hyperlink
	artwork     *canvas.Image
	artToggle   *widget.Button
	artVisible  bool
	vizImage    *canvas.Image

	// Transport
	prevButton    *widget.Button
	playButton    *widget.Button
	stopButton    *widget.Button
	nextButton    *widget.Button
	shuffleButton *widget.Button
	repeatButton  *widget.Button
	vizButton     *widget.Button

	progressSlider *widget.Slider
	currentTime    *widget.Label
	totalTime      *widget.Label

	volumeSlider *widget.Slider
	muteButton   *widget.Button

	// Tracklist
	filterEntry  *widget.Entry
	filterBar    *fyneapp.Container
	filterLabel  *widget.Label
	countLabel   *widget.Label
	trackList    *widget.List
	seeking      bool
	tracks       []domain.Track
	visibleRows  []int
	currentIndex int
	queuedSet    map[int]bool

	// Queue panel
	queuePanel   *fyneapp.Container
	queueList    *widget.List
	queueHeader  *widget.Label
	queueEntries []domain.QueueEntry

	// Feedback
	toastBox   *fyneapp.Container
	toastLabel *widget.Label
	liveRegion *widget.Label

	mu        sync.Mutex
	closeOnce sync.Once

	presenter *Presenter
}

// NewMainWindow builds the window for a fixed catalog. The presenter must
// be attached with SetPresenter before the window is shown.
func NewMainWindow(app fyneapp.App, tracks []domain.Track, cfg *config.Config) *MainWindow {
	w := &MainWindow{
		app:          app,
		cfg:          cfg.Tracklist,
		tracks:       tracks,
		queuedSet:    make(map[int]bool),
		currentIndex: -1,
	}
	w.visibleRows = allRows(len(tracks))

	w.window = app.NewWindow(appName)
	w.buildUI()
	w.window.Resize(fyneapp.NewSize(
		float32(cfg.Application.WindowWidth),
		float32(cfg.Application.WindowHeight),
	))

	return w
}

// SetPresenter connects the presenter and wires all gesture handlers.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wireHandlers()
	w.wireKeyboard()
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func (w *MainWindow) buildUI() {
	// Now-playing header
	w.titleLabel = widget.NewLabel("")
	w.titleLabel.TextStyle = fyneapp.TextStyle{Bold: true}
	w.titleLabel.Truncation = fyneapp.TextTruncateEllipsis
	w.artistLabel = widget.NewLabel("")
	w.albumLabel = widget.NewLabel("")
	w.pageLink = widget.NewHyperlink("Track page", nil)
	w.pageLink.Hide()

	w.artwork = canvas.NewImageFromResource(theme.MediaMusicIcon())
	w.artwork.FillMode = canvas.ImageFillContain
	w.artwork.SetMinSize(fyneapp.NewSize(240, 240))
	w.vizImage = canvas.NewImageFromImage(nil)
	w.vizImage.FillMode = canvas.ImageFillContain
	w.vizImage.Hide()
	artworkStack := container.NewStack(w.artwork, w.vizImage)
	w.artVisible = w.cfg.ShowArtwork
	if !w.artVisible {
		w.artwork.Hide()
	}
	w.artToggle = widget.NewButtonWithIcon("", theme.VisibilityIcon(), func() {
		w.artVisible = !w.artVisible
		if w.artVisible {
			w.artwork.Show()
			w.artToggle.SetIcon(theme.VisibilityIcon())
		} else {
			w.artwork.Hide()
			w.artToggle.SetIcon(theme.VisibilityOffIcon())
		}
	})
	w.artToggle.Disable() // no cover until a track with artwork loads

	// Transport controls
	w.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), nil)
	w.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), nil)
	w.shuffleButton = widget.NewButton("Shuffle", nil)
	w.repeatButton = widget.NewButton("Repeat: off", nil)
	w.vizButton = widget.NewButton("Visualizer: Off", nil)

	w.progressSlider = widget.NewSlider(0, 100)
	w.currentTime = widget.NewLabel("0:00")
	w.totalTime = widget.NewLabel("0:00")
	progress := container.NewBorder(nil, nil, w.currentTime, w.totalTime, w.progressSlider)

	w.volumeSlider = widget.NewSlider(0, 100)
	w.muteButton = widget.NewButtonWithIcon("", theme.VolumeUpIcon(), nil)
	volume := container.NewBorder(nil, nil, w.muteButton, nil, w.volumeSlider)

	transport := container.NewHBox(
		w.prevButton, w.playButton, w.stopButton, w.nextButton,
		w.shuffleButton, w.repeatButton, w.vizButton,
	)

	// Tracklist with filter
	w.filterEntry = widget.NewEntry()
	w.filterEntry.SetPlaceHolder("Filter tracks...")
	w.filterLabel = widget.NewLabel("")
	clearFilter := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		w.presenter.OnClearActiveFilter()
	})
	w.filterBar = container.NewBorder(nil, nil, nil, clearFilter, w.filterLabel)
	w.filterBar.Hide()
	w.countLabel = widget.NewLabel("")

	w.trackList = widget.NewList(w.trackListLength, w.newTrackRow, w.updateTrackRow)

	tracklist := container.NewBorder(
		container.NewVBox(w.filterEntry, w.filterBar, w.countLabel), nil, nil, nil,
		w.trackList,
	)
	if !w.cfg.ShowFilter {
		w.filterEntry.Hide()
	}

	// Queue panel, hidden until toggled
	w.queueHeader = widget.NewLabel("Queue is empty")
	clearQueue := widget.NewButton("Clear", func() { w.presenter.OnClearQueueClicked() })
	closeQueue := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		w.presenter.OnQueueToggled()
	})
	w.queueList = widget.NewList(w.queueListLength, w.newQueueRow, w.updateQueueRow)
	w.queuePanel = container.NewBorder(
		container.NewBorder(nil, nil, w.queueHeader, container.NewHBox(clearQueue, closeQueue)),
		nil, nil, nil,
		w.queueList,
	)
	w.queuePanel.Hide()

	// Feedback surfaces
	w.toastLabel = widget.NewLabel("")
	w.toastLabel.Alignment = fyneapp.TextAlignCenter
	toastBg := canvas.NewRectangle(color.NRGBA{A: 0xb0})
	w.toastBox = container.NewStack(toastBg, w.toastLabel)
	w.toastBox.Hide()
	w.liveRegion = widget.NewLabel("")
	w.liveRegion.TextStyle = fyneapp.TextStyle{Italic: true}

	header := container.NewBorder(nil, nil, artworkStack, nil,
		container.NewVBox(w.titleLabel, w.artistLabel, w.albumLabel,
			container.NewHBox(w.pageLink, w.artToggle)))

	top := container.NewVBox(header, transport, progress, volume)
	bottom := container.NewVBox(w.toastBox, w.liveRegion)

	var center fyneapp.CanvasObject = tracklist
	if !w.cfg.ShowTracklist {
		tracklist.Hide()
		center = container.NewStack()
	}

	content := container.NewBorder(top, bottom, nil, w.queuePanel, center)
	w.window.SetContent(content)
}

// Tracklist rows

func (w *MainWindow) trackListLength() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.visibleRows)
}

func (w *MainWindow) newTrackRow() fyneapp.CanvasObject {
	title := widget.NewLabel("")
	title.Truncation = fyneapp.TextTruncateEllipsis
	artist := widget.NewButton("", nil)
	artist.Importance = widget.LowImportance
	album := widget.NewButton("", nil)
	album.Importance = widget.LowImportance
	queue := widget.NewButton("Queue", nil)

	return container.NewBorder(nil, nil, nil, queue,
		container.NewBorder(nil, nil, title, nil, container.NewHBox(artist, album)))
}

func (w *MainWindow) updateTrackRow(id widget.ListItemID, item fyneapp.CanvasObject) {
	w.mu.Lock()
	if id < 0 || id >= len(w.visibleRows) {
		w.mu.Unlock()
		return
	}
	index := w.visibleRows[id]
	track := w.tracks[index]
	current := index == w.currentIndex
	queued := w.queuedSet[index]
	w.mu.Unlock()

	outer := item.(*fyneapp.Container)
	queueBtn := outer.Objects[1].(*widget.Button)
	inner := outer.Objects[0].(*fyneapp.Container)
	title := inner.Objects[1].(*widget.Label)
	links := inner.Objects[0].(*fyneapp.Container)
	artistBtn := links.Objects[0].(*widget.Button)
	albumBtn := links.Objects[1].(*widget.Button)

	title.SetText(fmt.Sprintf("%d. %s", index+1, track.DisplayTitle()))
	title.TextStyle = fyneapp.TextStyle{Bold: current}

	artistBtn.SetText(track.Artist)
	artistBtn.OnTapped = func() { w.presenter.OnArtistFilter(track.Artist) }
	if track.Artist == "" {
		artistBtn.Hide()
	} else {
		artistBtn.Show()
	}

	albumBtn.SetText(track.Album)
	albumBtn.OnTapped = func() { w.presenter.OnAlbumFilter(track.Album) }
	if track.Album == "" {
		albumBtn.Hide()
	} else {
		albumBtn.Show()
	}

	if queued {
		queueBtn.SetText("Queued")
		queueBtn.Importance = widget.HighImportance
	} else {
		queueBtn.SetText("Queue")
		queueBtn.Importance = widget.MediumImportance
	}
	queueBtn.OnTapped = func() { w.presenter.OnQueueToggleTrack(index) }
	queueBtn.Refresh()
}

// Queue panel rows

func (w *MainWindow) queueListLength() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queueEntries)
}

func (w *MainWindow) newQueueRow() fyneapp.CanvasObject {
	label := widget.NewLabel("")
	label.Truncation = fyneapp.TextTruncateEllipsis
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	return container.NewBorder(nil, nil, nil, remove, label)
}

func (w *MainWindow) updateQueueRow(id widget.ListItemID, item fyneapp.CanvasObject) {
	w.mu.Lock()
	if id < 0 || id >= len(w.queueEntries) {
		w.mu.Unlock()
		return
	}
	entry := w.queueEntries[id]
	w.mu.Unlock()

	row := item.(*fyneapp.Container)
	label := row.Objects[0].(*widget.Label)
	remove := row.Objects[1].(*widget.Button)

	text := entry.Track.DisplayTitle()
	if entry.Track.Artist != "" {
		text += " - " + entry.Track.Artist
	}
	label.SetText(fmt.Sprintf("%d. %s", id+1, text))
	remove.OnTapped = func() { w.presenter.OnQueueRemove(id) }
}

// Gesture wiring

func (w *MainWindow) wireHandlers() {
	w.playButton.OnTapped = w.presenter.OnPlayPauseClicked
	w.stopButton.OnTapped = w.presenter.OnStopClicked
	w.nextButton.OnTapped = w.presenter.OnNextClicked
	w.prevButton.OnTapped = w.presenter.OnPreviousClicked
	w.shuffleButton.OnTapped = w.presenter.OnShuffleClicked
	w.repeatButton.OnTapped = w.presenter.OnRepeatClicked
	w.muteButton.OnTapped = w.presenter.OnMuteClicked
	w.vizButton.OnTapped = w.presenter.OnVizToggleClicked

	// Dragging sets the flag so progress events stop moving the slider
	// under the user's pointer. Programmatic updates assign Value
	// directly and never fire OnChanged.
	w.progressSlider.OnChanged = func(float64) {
		w.seeking = true
	}
	w.progressSlider.OnChangeEnded = func(value float64) {
		w.seeking = false
		w.presenter.OnSeekRequested(value)
	}
	w.volumeSlider.OnChanged = func(value float64) {
		w.presenter.OnVolumeChanged(value / 100)
	}
	w.filterEntry.OnChanged = func(query string) {
		w.presenter.OnFilterChanged(query)
	}
	w.trackList.OnSelected = func(id widget.ListItemID) {
		w.mu.Lock()
		valid := id >= 0 && id < len(w.visibleRows)
		var index int
		if valid {
			index = w.visibleRows[id]
		}
		w.mu.Unlock()

		if valid {
			w.presenter.OnTrackSelected(index)
		}
		w.trackList.UnselectAll()
	}
}

// wireKeyboard installs the Winamp-style key bindings. Keys are swallowed
// while the filter entry has focus so typing stays typing.
func (w *MainWindow) wireKeyboard() {
	keyNames := map[fyneapp.KeyName]string{
		fyneapp.KeySpace:  "space",
		fyneapp.KeyLeft:   "left",
		fyneapp.KeyRight:  "right",
		fyneapp.KeyUp:     "up",
		fyneapp.KeyDown:   "down",
		fyneapp.KeyEscape: "escape",
	}

	w.window.Canvas().SetOnTypedKey(func(ev *fyneapp.KeyEvent) {
		if name, ok := keyNames[ev.Name]; ok {
			w.presenter.OnKey(service.KeyEvent{
				Name:             name,
				TextInputFocused: w.textInputFocused(),
			})
		}
	})

	w.window.Canvas().SetOnTypedRune(func(r rune) {
		if r == '?' {
			if !w.textInputFocused() {
				w.showHelp()
			}
			return
		}
		w.presenter.OnKey(service.KeyEvent{
			Name:             strings.ToLower(string(r)),
			TextInputFocused: w.textInputFocused(),
		})
	})

	// Shifted arrows skip tracks; plain arrows seek.
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName: fyneapp.KeyRight, Modifier: fyneapp.KeyModifierShift,
	}, func(fyneapp.Shortcut) {
		w.presenter.OnKey(service.KeyEvent{Name: "right", Shift: true, TextInputFocused: w.textInputFocused()})
	})
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName: fyneapp.KeyLeft, Modifier: fyneapp.KeyModifierShift,
	}, func(fyneapp.Shortcut) {
		w.presenter.OnKey(service.KeyEvent{Name: "left", Shift: true, TextInputFocused: w.textInputFocused()})
	})
}

func (w *MainWindow) textInputFocused() bool {
	_, isEntry := w.window.Canvas().Focused().(*widget.Entry)
	return isEntry
}

func (w *MainWindow) showHelp() {
	help := widget.NewLabel(strings.Join([]string{
		"Space  Play / pause",
		"Z / B  Previous / next track",
		"X / C / V  Play / pause / stop",
		"Left / Right  Seek 5s",
		"Shift+Left / Shift+Right  Previous / next track",
		"Up / Down  Volume",
		"M  Mute    S  Shuffle    R  Repeat",
		"Q  Queue panel    ?  This help",
	}, "\n"))
	dialog.ShowCustom("Keyboard shortcuts", "Close", help, w.window)
}

// ports.UI implementation. Every method may be called off the main thread,
// so mutations go through fyne.Do.

// SetNowPlaying updates the header and moves the tracklist highlight.
func (w *MainWindow) SetNowPlaying(track domain.Track, index int) {
	w.mu.Lock()
	w.currentIndex = index
	w.mu.Unlock()

	fyneapp.Do(func() {
		w.titleLabel.SetText(track.DisplayTitle())
		w.artistLabel.SetText(track.Artist)
		w.albumLabel.SetText(track.Album)

		if link, err := url.Parse(track.PageLink); err == nil && track.PageLink != "" {
			w.pageLink.SetURL(link)
			w.pageLink.Show()
		} else {
			w.pageLink.Hide()
		}

		if track.CoverURL == "" {
			w.artToggle.Disable()
		} else {
			w.artToggle.Enable()
		}

		w.setArtwork(track.CoverURL)
		w.trackList.Refresh()
	})
}

// setArtwork swaps the cover image, falling back to the placeholder. Remote
// covers load in the background so a slow CDN never stalls a track change.
func (w *MainWindow) setArtwork(coverURL string) {
	if coverURL == "" {
		w.artwork.Resource = theme.MediaMusicIcon()
		w.artwork.Image = nil
		w.artwork.Refresh()
		return
	}

	go func() {
		uri, err := url.Parse(coverURL)
		if err != nil {
			return
		}
		res, err := fyneapp.LoadResourceFromURLString(uri.String())
		if err != nil {
			return
		}
		fyneapp.Do(func() {
			w.artwork.Resource = res
			w.artwork.Image = nil
			w.artwork.Refresh()
		})
	}()
}

// SetPlayState swaps the play/pause icon.
func (w *MainWindow) SetPlayState(playing bool) {
	fyneapp.Do(func() {
		if playing {
			w.playButton.SetIcon(theme.MediaPauseIcon())
		} else {
			w.playButton.SetIcon(theme.MediaPlayIcon())
		}
	})
}

// SetProgress moves the fill bar and the current-time label.
func (w *MainWindow) SetProgress(percent float64, position time.Duration) {
	fyneapp.Do(func() {
		if !w.seeking {
			w.progressSlider.Value = percent
			w.progressSlider.Refresh()
		}
		w.currentTime.SetText(domain.FormatTime(position))
	})
}

// SetDuration sets the total-time label.
func (w *MainWindow) SetDuration(duration time.Duration) {
	fyneapp.Do(func() {
		w.totalTime.SetText(domain.FormatTime(duration))
	})
}

// ResetProgress zeroes the bar and both time labels.
func (w *MainWindow) ResetProgress() {
	fyneapp.Do(func() {
		w.progressSlider.Value = 0
		w.progressSlider.Refresh()
		w.currentTime.SetText("0:00")
		w.totalTime.SetText("0:00")
	})
}

// SetShuffleState updates the shuffle toggle.
func (w *MainWindow) SetShuffleState(enabled bool) {
	fyneapp.Do(func() {
		if enabled {
			w.shuffleButton.Importance = widget.HighImportance
		} else {
			w.shuffleButton.Importance = widget.MediumImportance
		}
		w.shuffleButton.Refresh()
	})
}

// SetRepeatState updates the repeat toggle label and emphasis.
func (w *MainWindow) SetRepeatState(mode domain.RepeatMode) {
	fyneapp.Do(func() {
		w.repeatButton.SetText("Repeat: " + mode.String())
		if mode == domain.RepeatOff {
			w.repeatButton.Importance = widget.MediumImportance
		} else {
			w.repeatButton.Importance = widget.HighImportance
		}
		w.repeatButton.Refresh()
	})
}

// SetVolume moves the slider and the mute icon. displayed is already
// zeroed while muted.
func (w *MainWindow) SetVolume(displayed float64, muted bool) {
	fyneapp.Do(func() {
		w.volumeSlider.Value = displayed * 100
		w.volumeSlider.Refresh()
		if muted || displayed == 0 {
			w.muteButton.SetIcon(theme.VolumeMuteIcon())
		} else {
			w.muteButton.SetIcon(theme.VolumeUpIcon())
		}
	})
}

// ApplyTracklistFilter updates row visibility and the indicator bar. A nil
// visibility slice leaves the rows alone and only updates the bar.
func (w *MainWindow) ApplyTracklistFilter(visible []bool, count int, active *domain.ActiveFilter) {
	w.mu.Lock()
	if visible != nil {
		rows := make([]int, 0, count)
		for i, v := range visible {
			if v {
				rows = append(rows, i)
			}
		}
		w.visibleRows = rows
	}
	total := len(w.tracks)
	w.mu.Unlock()

	fyneapp.Do(func() {
		if count == total {
			w.countLabel.SetText("")
		} else {
			w.countLabel.SetText(fmt.Sprintf("%d of %d tracks", count, total))
		}

		if active != nil {
			w.filterLabel.SetText(active.Field.Label() + ": " + active.Value)
			w.filterBar.Show()
		} else {
			w.filterBar.Hide()
		}
		w.trackList.Refresh()
	})
}

// ClearFilterInput empties the filter box without firing its handler.
func (w *MainWindow) ClearFilterInput() {
	fyneapp.Do(func() {
		handler := w.filterEntry.OnChanged
		w.filterEntry.OnChanged = nil
		w.filterEntry.SetText("")
		w.filterEntry.OnChanged = handler
	})
}

// SetQueue rebuilds the queue panel and the per-row queue buttons.
func (w *MainWindow) SetQueue(entries []domain.QueueEntry) {
	w.mu.Lock()
	w.queueEntries = entries
	w.queuedSet = make(map[int]bool, len(entries))
	for _, entry := range entries {
		w.queuedSet[entry.TrackIndex] = true
	}
	w.mu.Unlock()

	fyneapp.Do(func() {
		if len(entries) == 0 {
			w.queueHeader.SetText("Queue is empty")
		} else {
			w.queueHeader.SetText(fmt.Sprintf("Queue (%d)", len(entries)))
		}
		w.queueList.Refresh()
		w.trackList.Refresh()
	})
}

// SetQueuePanelOpen shows or hides the queue panel.
func (w *MainWindow) SetQueuePanelOpen(open bool) {
	fyneapp.Do(func() {
		if open {
			w.queuePanel.Show()
		} else {
			w.queuePanel.Hide()
		}
	})
}

// ShowToast displays the single toast slot. Fading and hiding are driven
// by the toast controller's timers.
func (w *MainWindow) ShowToast(message string) {
	fyneapp.Do(func() {
		w.toastLabel.SetText(message)
		w.toastLabel.Importance = widget.MediumImportance
		w.toastBox.Show()
		w.toastBox.Refresh()
	})
}

// FadeToast dims the toast ahead of removal.
func (w *MainWindow) FadeToast() {
	fyneapp.Do(func() {
		w.toastLabel.Importance = widget.LowImportance
		w.toastLabel.Refresh()
	})
}

// HideToast removes the toast.
func (w *MainWindow) HideToast() {
	fyneapp.Do(func() {
		w.toastBox.Hide()
	})
}

// Announce mirrors the assistive announcement into the status line.
func (w *MainWindow) Announce(message string) {
	fyneapp.Do(func() {
		w.liveRegion.SetText(message)
	})
}

// SetVisualizerState updates the toggle's label and enabled state.
func (w *MainWindow) SetVisualizerState(mode domain.VizMode, blocked bool) {
	fyneapp.Do(func() {
		w.vizButton.SetText("Visualizer: " + mode.DisplayName())
		if blocked {
			w.vizButton.Disable()
		} else {
			w.vizButton.Enable()
		}
		if mode == domain.VizOff {
			w.vizButton.Importance = widget.MediumImportance
		} else {
			w.vizButton.Importance = widget.HighImportance
		}
		w.vizButton.Refresh()
	})
}

// UpdateVisualizerFrame presents one rendered frame over the artwork.
func (w *MainWindow) UpdateVisualizerFrame(frame *image.RGBA) {
	fyneapp.Do(func() {
		w.vizImage.Image = frame
		w.vizImage.Show()
		w.vizImage.Refresh()
	})
}

// ClearVisualizer blanks the frame overlay.
func (w *MainWindow) ClearVisualizer() {
	fyneapp.Do(func() {
		w.vizImage.Image = nil
		w.vizImage.Hide()
	})
}

// Run shows the window and blocks until it closes.
func (w *MainWindow) Run() error {
	w.window.ShowAndRun()
	return nil
}

// Quit closes the window. Safe to call more than once.
func (w *MainWindow) Quit() {
	w.closeOnce.Do(func() {
		fyneapp.Do(func() {
			w.window.Close()
		})
	})
}

// Verify interface implementations at compile time.
var (
	_ ports.UI          = (*MainWindow)(nil)
	_ service.ToastSink = (*MainWindow)(nil)
)
