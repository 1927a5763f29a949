package render

import (
	"net/url"
	"strings"

	"github.com/jwulff/campuscast/internal/domain"
)

// Layout constants
const (
	// Header band for content screens: rows 0-10
	HeaderEndY = 10
	TitleY     = 3
	BodyStartY = 14

	// Notice bar: rows 56-63
	BarStartY = 56
	BarTextY  = 58

	// Idle screen text below the clock
	IdleNameY     = 30
	IdleLocationY = 39
)

// CampusName is shown on idle screens.
const CampusName = "CITY COLLEGE"

const noticeSeparator = " / "

// ComposeScreen renders a full 64x64 frame for screen.
func ComposeScreen(screen domain.Screen) *domain.Frame {
	frame := domain.NewFrameWithColor(DisplayWidth, DisplayHeight, ColorBg)

	if !screen.Configured() {
		renderNotConfigured(frame, screen.DeviceID)
		return frame
	}

	bodyEndY := DisplayHeight - 1
	if len(screen.Urgent) > 0 || screen.ShowTicker() {
		bodyEndY = BarStartY - 1
	}

	if screen.Current == nil {
		renderIdle(frame, screen, bodyEndY)
	} else {
		renderContent(frame, *screen.Current, bodyEndY)
	}

	switch {
	case len(screen.Urgent) > 0:
		renderUrgentBar(frame, screen)
	case screen.ShowTicker():
		renderTicker(frame, screen)
	}
	return frame
}

func renderNotConfigured(frame *domain.Frame, deviceID string) {
	DrawTinyTextCentered(frame, "DEVICE NOT", frame.Width, 18, ColorNotConfigured)
	DrawTinyTextCentered(frame, "CONFIGURED", frame.Width, 25, ColorNotConfigured)
	DrawTextBlock(frame, "ID: "+deviceID, 38, DisplayHeight-1, ColorGray)
}

func renderIdle(frame *domain.Frame, screen domain.Screen, bodyEndY int) {
	FillGradient(frame, 0, bodyEndY, ColorIdleTop, ColorIdleBottom)
	RenderClock(frame, screen.At)
	DrawTinyTextCentered(frame, CampusName, frame.Width, IdleNameY, ColorWhite)
	DrawTextBlock(frame, screen.Device.Location, IdleLocationY, bodyEndY, ColorLocation)
}

func renderContent(frame *domain.Frame, item domain.ContentItem, bodyEndY int) {
	header := KindColor(item.Kind)
	frame.FillRect(0, 0, frame.Width, HeaderEndY+1, header)
	DrawTinyTextCentered(frame, TruncateTinyText(item.Title, frame.Width-2*TextMargin), frame.Width, TitleY, ColorTitle)

	switch item.Kind {
	case domain.KindText:
		FillGradient(frame, HeaderEndY+1, bodyEndY, DimColor(header, 0.5), ColorBg)
		DrawTextBlock(frame, item.Payload, BodyStartY, bodyEndY, ColorWhite)
	case domain.KindBirthday:
		FillGradient(frame, HeaderEndY+1, bodyEndY, DimColor(header, 0.6), DimColor(header, 0.2))
		y := DrawTextBlock(frame, "HAPPY BIRTHDAY!", BodyStartY, bodyEndY, ColorWhite)
		DrawTextBlock(frame, item.Payload, y+2, bodyEndY, ColorLightGray)
	default:
		y := DrawTextBlock(frame, string(item.Kind), BodyStartY, bodyEndY, ColorGray)
		DrawTextBlock(frame, mediaLabel(item.Payload), y+2, bodyEndY, ColorLightGray)
	}
}

// mediaLabel shortens a media URL to its host.
func mediaLabel(payload string) string {
	u, err := url.Parse(payload)
	if err != nil || u.Host == "" {
		return payload
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func renderUrgentBar(frame *domain.Frame, screen domain.Screen) {
	frame.FillRect(0, BarStartY, frame.Width, DisplayHeight-BarStartY, ColorUrgentBar)
	texts := make([]string, 0, len(screen.Urgent))
	for _, n := range screen.Urgent {
		texts = append(texts, n.Text)
	}
	line := "URGENT: " + strings.Join(texts, noticeSeparator)
	DrawTinyText(frame, Marquee(line, frame.Width-2, screen.At.Unix()), 1, BarTextY, ColorWhite)
}

func renderTicker(frame *domain.Frame, screen domain.Screen) {
	frame.FillRect(0, BarStartY, frame.Width, DisplayHeight-BarStartY, ColorTickerBar)
	frame.FillRect(0, BarStartY, frame.Width, 1, ColorTickerEdge)
	texts := make([]string, 0, len(screen.Normal))
	for _, n := range screen.Normal {
		texts = append(texts, n.Text)
	}
	line := strings.Join(texts, noticeSeparator)
	DrawTinyText(frame, Marquee(line, frame.Width-2, screen.At.Unix()), 1, BarTextY, ColorWhite)
}

// Marquee returns the window of text visible at the given step when it
// scrolls one character per step through width pixels. Text that fits is
// returned unchanged.
func Marquee(text string, width int, step int64) string {
	runes := []rune(text)
	n := TinyCharsPerLine(width)
	if len(runes) <= n {
		return text
	}

	loop := append(runes, []rune(noticeSeparator)...)
	start := int(step % int64(len(loop)))
	if start < 0 {
		start += len(loop)
	}

	out := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, loop[(start+i)%len(loop)])
	}
	return string(out)
}
