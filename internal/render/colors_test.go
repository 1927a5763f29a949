package render

import (
	"testing"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestKindColor(t *testing.T) {
	assert.Equal(t, ColorKindText, KindColor(domain.KindText))
	assert.Equal(t, ColorKindBirthday, KindColor(domain.KindBirthday))

	for _, kind := range []domain.ContentKind{domain.KindImage, domain.KindVideo, domain.KindURL} {
		assert.Equal(t, ColorKindMedia, KindColor(kind), "kind %s", kind)
	}
}

func TestFillGradient(t *testing.T) {
	frame := domain.NewFrame(4, 11)
	top := domain.NewRGB(0, 0, 0)
	bottom := domain.NewRGB(100, 200, 50)

	FillGradient(frame, 0, 10, top, bottom)

	assert.Equal(t, top, *frame.GetPixel(0, 0))
	assert.Equal(t, bottom, *frame.GetPixel(3, 10))
	assert.Equal(t, domain.NewRGB(50, 100, 25), *frame.GetPixel(2, 5))
}

func TestLerpColor(t *testing.T) {
	red := domain.NewRGB(255, 0, 0)
	blue := domain.NewRGB(0, 0, 255)

	tests := []struct {
		t    float64
		want domain.RGB
	}{
		{t: -0.5, want: red},
		{t: 0, want: red},
		{t: 0.5, want: domain.NewRGB(127, 0, 127)},
		{t: 1, want: blue},
		{t: 1.5, want: blue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LerpColor(red, blue, tt.t), "t=%v", tt.t)
	}
}

func TestDimColor(t *testing.T) {
	c := domain.NewRGB(200, 100, 50)

	assert.Equal(t, c, DimColor(c, 1))
	assert.Equal(t, c, DimColor(c, 1.5))
	assert.Equal(t, domain.NewRGB(100, 50, 25), DimColor(c, 0.5))
	assert.Equal(t, ColorBlack, DimColor(c, 0))
	assert.Equal(t, ColorBlack, DimColor(c, -0.5))
}
