package render

import (
	"strings"
	"testing"
	"time"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var screenTime = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

func lobby() *domain.Device {
	return domain.NewDevice("tv-101", "Main Lobby Display", "Main Entrance", domain.GroupCommonArea)
}

func TestComposeNotConfigured(t *testing.T) {
	frame := ComposeScreen(domain.Screen{DeviceID: "tv-999", At: screenTime})

	require.Equal(t, DisplayWidth, frame.Width)
	assert.True(t, hasColorInRows(frame, 18, 30, ColorNotConfigured))
	assert.True(t, hasColorInRows(frame, 38, 44, ColorGray))
}

func TestComposeIdle(t *testing.T) {
	frame := ComposeScreen(domain.Screen{DeviceID: "tv-101", Device: lobby(), At: screenTime})

	assert.True(t, frame.GetPixel(0, 0).Equals(ColorIdleTop))
	assert.True(t, hasColorInRows(frame, IdleNameY, IdleNameY+TinyCharHeight, ColorWhite))
	assert.True(t, hasColorInRows(frame, IdleLocationY, IdleLocationY+TinyCharHeight, ColorLocation))
	assert.False(t, hasColorInRows(frame, BarStartY, 63, ColorUrgentBar))
}

func TestComposeTextContent(t *testing.T) {
	item := domain.ContentItem{ID: "c-2", Kind: domain.KindText, Title: "Library Hours", Payload: "Open until 10 PM"}
	frame := ComposeScreen(domain.Screen{DeviceID: "tv-101", Device: lobby(), Current: &item, At: screenTime})

	assert.True(t, frame.GetPixel(0, 0).Equals(ColorKindText))
	assert.True(t, hasColorInRows(frame, TitleY, TitleY+TinyCharHeight, ColorTitle))
	assert.True(t, hasColorInRows(frame, BodyStartY, BodyStartY+TinyCharHeight, ColorWhite))
}

func TestComposeBirthday(t *testing.T) {
	item := domain.ContentItem{ID: "c-3", Kind: domain.KindBirthday, Title: "Happy Birthday", Payload: "Alice"}
	frame := ComposeScreen(domain.Screen{DeviceID: "tv-101", Device: lobby(), Current: &item, At: screenTime})

	assert.True(t, frame.GetPixel(0, 0).Equals(ColorKindBirthday))
	assert.True(t, hasColorInRows(frame, BodyStartY, BodyStartY+TinyCharHeight, ColorWhite))
}

func TestComposeUrgentBar(t *testing.T) {
	screen := domain.Screen{
		DeviceID:       "tv-101",
		Device:         lobby(),
		Urgent:         []domain.Notice{{ID: "n-1", Text: "Fire drill", Active: true, Urgent: true}},
		Normal:         []domain.Notice{{ID: "n-2", Text: "Chess club", Active: true}},
		SuppressNormal: true,
		At:             screenTime,
	}
	frame := ComposeScreen(screen)

	assert.True(t, frame.GetPixel(0, 63).Equals(ColorUrgentBar))
	assert.False(t, hasColorInRows(frame, BarStartY, BarStartY, ColorTickerEdge))
}

func TestComposeTicker(t *testing.T) {
	screen := domain.Screen{
		DeviceID: "tv-101",
		Device:   lobby(),
		Normal:   []domain.Notice{{ID: "n-2", Text: "Chess club", Active: true}},
		At:       screenTime,
	}
	frame := ComposeScreen(screen)

	assert.True(t, frame.GetPixel(0, BarStartY).Equals(ColorTickerEdge))
	assert.True(t, frame.GetPixel(0, 63).Equals(ColorTickerBar))
}

func TestMediaLabel(t *testing.T) {
	assert.Equal(t, "picsum.photos", mediaLabel("https://picsum.photos/1920/1080"))
	assert.Equal(t, "example.com", mediaLabel("https://www.example.com/a.mp4"))
	assert.Equal(t, "not a url", mediaLabel("not a url"))
}

func TestMarquee(t *testing.T) {
	assert.Equal(t, "SHORT", Marquee("SHORT", 62, 99))

	long := strings.Repeat("ABCDEFGHIJ", 3)
	n := TinyCharsPerLine(62)

	first := Marquee(long, 62, 0)
	assert.Len(t, first, n)
	assert.Equal(t, long[:n], first)

	assert.Equal(t, long[1:n+1], Marquee(long, 62, 1))

	// the window wraps through the separator back to the start
	loop := len(long) + len(noticeSeparator)
	assert.Equal(t, first, Marquee(long, 62, int64(loop)))
}
