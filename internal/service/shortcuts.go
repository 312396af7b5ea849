package service

import "time"

// Keyboard behavior tuning.
const (
	seekStep   = 5 * time.Second
	volumeStep = 0.1
)

// KeyEvent is a normalized keyboard gesture, independent of any UI toolkit.
// Name is a lowercase letter or one of "space", "left", "right", "up",
// "down", "escape".
type KeyEvent struct {
	Name             string
	Shift            bool
	TextInputFocused bool
}

// HandleShortcut dispatches the Winamp-style keyboard bindings. It returns
// true when the key was consumed, so the UI can suppress its default
// behavior. Keys are ignored entirely while a text input has focus; the
// filter box owns them then.
func (s *PlayerService) HandleShortcut(key KeyEvent) bool {
	if key.TextInputFocused {
		return false
	}

	switch key.Name {
	case "z":
		s.Previous()
	case "x":
		s.Play()
	case "c":
		s.Pause()
	case "v":
		s.Stop()
	case "b":
		s.Next()
	case "space":
		s.TogglePlay()
	case "left":
		if key.Shift {
			s.Previous()
		} else {
			s.SeekBy(-seekStep)
		}
	case "right":
		if key.Shift {
			s.Next()
		} else {
			s.SeekBy(seekStep)
		}
	case "up":
		s.AdjustVolume(volumeStep)
	case "down":
		s.AdjustVolume(-volumeStep)
	case "m":
		s.ToggleMute()
	case "s":
		s.ToggleShuffle()
	case "r":
		s.ToggleRepeat()
	case "q":
		s.ToggleQueuePanel()
	case "escape":
		s.CloseQueuePanel()
	default:
		return false
	}
	return true
}
