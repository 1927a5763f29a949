package render

import "github.com/jwulff/campuscast/internal/domain"

// Panel palette.
var (
	ColorBlack = domain.NewRGB(0, 0, 0)
	ColorBg    = ColorBlack

	ColorWhite     = domain.NewRGB(255, 255, 255)
	ColorGray      = domain.NewRGB(128, 128, 128)
	ColorLightGray = domain.NewRGB(192, 192, 192)

	ColorTime = domain.NewRGB(255, 255, 255)
	ColorDate = domain.NewRGB(180, 180, 180)

	// Idle screen gradient, slate to blue
	ColorIdleTop    = domain.NewRGB(15, 23, 42)
	ColorIdleBottom = domain.NewRGB(30, 58, 138)
	ColorLocation   = domain.NewRGB(191, 219, 254)

	// Notice bars
	ColorUrgentBar  = domain.NewRGB(220, 38, 38)
	ColorTickerBar  = domain.NewRGB(15, 23, 42)
	ColorTickerEdge = domain.NewRGB(59, 130, 246)

	// Content headers by kind
	ColorKindText     = domain.NewRGB(55, 48, 163)
	ColorKindBirthday = domain.NewRGB(225, 29, 72)
	ColorKindMedia    = domain.NewRGB(30, 30, 30)
	ColorTitle        = domain.NewRGB(191, 219, 254)

	ColorNotConfigured = domain.NewRGB(255, 100, 100)
)

// KindColor returns the header color for a content kind.
func KindColor(kind domain.ContentKind) domain.RGB {
	switch kind {
	case domain.KindText:
		return ColorKindText
	case domain.KindBirthday:
		return ColorKindBirthday
	default:
		return ColorKindMedia
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)))
}

// LerpColor blends a toward b; t is clamped to 0..1.
func LerpColor(a, b domain.RGB, t float64) domain.RGB {
	t = min(max(t, 0), 1)
	return domain.NewRGB(lerp(a.R, b.R, t), lerp(a.G, b.G, t), lerp(a.B, b.B, t))
}

// DimColor scales brightness by factor, clamped to 0..1.
func DimColor(c domain.RGB, factor float64) domain.RGB {
	return LerpColor(ColorBlack, c, factor)
}

// FillGradient paints rows y0..y1 (inclusive) blending from top to bottom.
func FillGradient(frame *domain.Frame, y0, y1 int, top, bottom domain.RGB) {
	span := y1 - y0
	for y := y0; y <= y1; y++ {
		t := 0.0
		if span > 0 {
			t = float64(y-y0) / float64(span)
		}
		frame.FillRect(0, y, frame.Width, 1, LerpColor(top, bottom, t))
	}
}
