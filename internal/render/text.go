package render

import "github.com/jwulff/campuscast/internal/domain"

// DisplayWidth is the default Pixoo64 display width.
const DisplayWidth = 64

// DisplayHeight is the default Pixoo64 display height.
const DisplayHeight = 64

// TextMargin is the horizontal padding used for wrapped text.
const TextMargin = 2

// Bounds represents the bounding box of rendered text.
type Bounds struct {
	Width  int
	Height int
}

// TinyTextBounds returns the bounding box of lines drawn in the tiny font.
func TinyTextBounds(lines []string) Bounds {
	b := Bounds{}
	for _, line := range lines {
		if w := MeasureTinyText(line); w > b.Width {
			b.Width = w
		}
	}
	if len(lines) > 0 {
		b.Height = len(lines)*TinyLineHeight - (TinyLineHeight - TinyCharHeight)
	}
	return b
}

// DrawTextBlock wraps text into the area between y and maxY and draws each
// line centered. It returns the y position after the last line.
func DrawTextBlock(frame *domain.Frame, text string, y, maxY int, color domain.RGB) int {
	maxLines := (maxY - y + 1 + (TinyLineHeight - TinyCharHeight)) / TinyLineHeight
	lines := WrapTinyText(text, frame.Width-2*TextMargin, maxLines)
	for _, line := range lines {
		DrawTinyTextCentered(frame, line, frame.Width, y, color)
		y += TinyLineHeight
	}
	return y
}

// DrawTinyTextRightAligned draws tiny text ending at rightX.
func DrawTinyTextRightAligned(frame *domain.Frame, text string, rightX, y int, color domain.RGB) {
	x := rightX - MeasureTinyText(text) + 1
	DrawTinyText(frame, text, x, y, color)
}
