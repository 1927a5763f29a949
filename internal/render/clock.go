package render

import (
	"fmt"
	"math"
	"time"

	"github.com/jwulff/campuscast/internal/domain"
)

// Clock layout constants
const (
	ClockTimeY     = 3  // Y position for time
	ClockTimeScale = 2  // Time digits are the tiny font doubled
	ClockDateY     = 16 // Y position for date (tiny font)
	BandY          = 23 // Y position for sunlight band
	BandHeight     = 3  // Height of sunlight band
	BandMargin     = 1  // Left/right margin for band
)

var (
	days   = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
	months = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}
)

// FormatClock formats t as "H:MM" on a 12-hour clock without a leading zero.
func FormatClock(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d", hour, t.Minute())
}

// FormatDate formats t as "MON JAN 2".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %s %d", days[t.Weekday()], months[t.Month()-1], t.Day())
}

// RenderClock renders the idle clock region (time, date, sunlight band).
func RenderClock(frame *domain.Frame, t time.Time) {
	timeStr := FormatClock(t)
	width := MeasureTinyText(timeStr) * ClockTimeScale
	DrawTinyTextScaled(frame, timeStr, (frame.Width-width)/2, ClockTimeY, ClockTimeScale, ColorTime)

	DrawTinyTextCentered(frame, FormatDate(t), frame.Width, ClockDateY, ColorDate)

	renderSunlightBand(frame, t.Hour())
}

// renderSunlightBand draws the 24-hour sunlight gradient.
// Left edge = 12 hours ago, center = now, right edge = 12 hours from now.
func renderSunlightBand(frame *domain.Frame, currentHour int) {
	bandWidth := frame.Width - BandMargin*2
	bandX := BandMargin

	for px := 0; px < bandWidth; px++ {
		hoursOffset := (float64(px)/float64(bandWidth-1) - 0.5) * 24
		hour := int(float64(currentHour)+hoursOffset+24) % 24
		sunlight := getSunlightPercent(hour)

		r := uint8(20 + sunlight*180)
		g := uint8(20 + sunlight*160)
		b := uint8(40 + (1-sunlight)*80)

		for py := BandY; py < BandY+BandHeight; py++ {
			frame.SetPixel(bandX+px, py, domain.NewRGB(r, g, b))
		}
	}

	// now indicator
	centerX := bandX + bandWidth/2
	for py := BandY; py < BandY+BandHeight; py++ {
		frame.SetPixel(centerX, py, ColorWhite)
	}
}

// getSunlightPercent returns sunlight percentage (0-1) for an hour (0-23).
// Peaks at noon, bottoms at midnight.
func getSunlightPercent(hour int) float64 {
	return (1 + math.Cos(float64(hour-12)*math.Pi/12)) / 2
}
