package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaylist(t *testing.T) {
	payload := `[
		{"id":"a1","title":"First Song","artist":"Ann","album":"Debut","cover":"/img/a.jpg","url":"/media/a.mp3","pageLink":"/tracks/a"},
		{"id":"b2","title":"Second Song","url":"https://cdn.example.com/b.mp3"}
	]`

	tracks, err := ParsePlaylist([]byte(payload))
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, "First Song", tracks[0].Title)
	assert.Equal(t, "Ann", tracks[0].Artist)
	assert.Equal(t, "/tracks/a", tracks[0].PageLink)
	assert.Empty(t, tracks[1].Artist)
	assert.Equal(t, "https://cdn.example.com/b.mp3", tracks[1].MediaURL)
}

func TestParsePlaylist_Malformed(t *testing.T) {
	_, err := ParsePlaylist([]byte(`{"not":"a list"`))
	assert.Error(t, err)
}

func TestTrack_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Song", Track{Title: "Song"}.DisplayTitle())
	assert.Equal(t, "Unknown Track", Track{}.DisplayTitle())
}

func TestRepeatMode_Cycle(t *testing.T) {
	assert.Equal(t, RepeatAll, RepeatOff.Next())
	assert.Equal(t, RepeatOne, RepeatAll.Next())
	assert.Equal(t, RepeatOff, RepeatOne.Next())
}

func TestRepeatMode_Strings(t *testing.T) {
	assert.Equal(t, "off", RepeatOff.String())
	assert.Equal(t, "all", RepeatAll.String())
	assert.Equal(t, "one", RepeatOne.String())

	assert.Equal(t, "Repeat off", RepeatOff.Announcement())
	assert.Equal(t, "Repeat all tracks", RepeatAll.Announcement())
	assert.Equal(t, "Repeat current track", RepeatOne.Announcement())
}

func TestVizMode_Cycle(t *testing.T) {
	mode := VizOff
	var seen []VizMode
	for range VizModes {
		mode = mode.Next()
		seen = append(seen, mode)
	}

	assert.Equal(t, []VizMode{VizBars, VizOscilloscope, VizMirror, VizFire, VizOff}, seen)

	// An unknown mode resets to off
	assert.Equal(t, VizOff, VizMode("bogus").Next())
}

func TestVizMode_DisplayNames(t *testing.T) {
	assert.Equal(t, "Off", VizOff.DisplayName())
	assert.Equal(t, "Classic Bars", VizBars.DisplayName())
	assert.Equal(t, "Oscilloscope", VizOscilloscope.DisplayName())
	assert.Equal(t, "Spectrum Mirror", VizMirror.DisplayName())
	assert.Equal(t, "Fire Bars", VizFire.DisplayName())
}

func TestVizMode_TimeDomain(t *testing.T) {
	assert.True(t, VizOscilloscope.TimeDomain())
	assert.False(t, VizBars.TimeDomain())
	assert.False(t, VizFire.TimeDomain())
}

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-5 * time.Second, "0:00"},
		{7 * time.Second, "0:07"},
		{65 * time.Second, "1:05"},
		{3 * time.Minute, "3:00"},
		{10*time.Minute + 9*time.Second, "10:09"},
		{61 * time.Minute, "61:00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTime(tc.in), "FormatTime(%v)", tc.in)
	}
}

func TestPlayerSnapshot_DisplayedVolume(t *testing.T) {
	assert.InDelta(t, 0.7, PlayerSnapshot{Volume: 0.7}.DisplayedVolume(), 1e-9)
	assert.Zero(t, PlayerSnapshot{Volume: 0.7, Muted: true}.DisplayedVolume())
	assert.Zero(t, PlayerSnapshot{Volume: 0}.DisplayedVolume())
}

func TestFilterField_Label(t *testing.T) {
	assert.Equal(t, "Artist", FilterByArtist.Label())
	assert.Equal(t, "Album", FilterByAlbum.Label())
}
