package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGB(t *testing.T) {
	c := NewRGB(255, 128, 64)
	assert.Equal(t, RGB{R: 255, G: 128, B: 64}, c)
	assert.True(t, c.Equals(NewRGB(255, 128, 64)))
	assert.False(t, c.Equals(NewRGB(255, 128, 65)))
	assert.Equal(t, "RGB(255, 128, 64)", c.String())
}

func TestNewFrame(t *testing.T) {
	frame := NewFrame(PanelSize, PanelSize)

	assert.Equal(t, PanelSize, frame.Width)
	assert.Equal(t, PanelSize, frame.Height)
	assert.Len(t, frame.Pixels, PanelSize*PanelSize*BytesPerPixel)
	assert.True(t, frame.GetPixel(10, 10).Equals(NewRGB(0, 0, 0)))
}

func TestNewFrameWithColor(t *testing.T) {
	red := NewRGB(255, 0, 0)
	frame := NewFrameWithColor(4, 4, red)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			pixel := frame.GetPixel(x, y)
			require.NotNil(t, pixel)
			assert.True(t, pixel.Equals(red), "pixel at (%d, %d)", x, y)
		}
	}
}

func TestFrameSetGetPixel(t *testing.T) {
	frame := NewFrame(10, 10)
	green := NewRGB(0, 255, 0)

	frame.SetPixel(5, 5, green)

	pixel := frame.GetPixel(5, 5)
	require.NotNil(t, pixel)
	assert.True(t, pixel.Equals(green))
	assert.Equal(t, []byte{0, 255, 0}, frame.Pixels[(5*10+5)*3:(5*10+5)*3+3])
}

func TestFrameOutOfBounds(t *testing.T) {
	frame := NewFrame(10, 10)

	assert.NotPanics(t, func() {
		frame.SetPixel(-1, 0, NewRGB(255, 0, 0))
		frame.SetPixel(10, 0, NewRGB(255, 0, 0))
		frame.SetPixel(0, 10, NewRGB(255, 0, 0))
	})
	assert.Nil(t, frame.GetPixel(-1, 0))
	assert.Nil(t, frame.GetPixel(0, -1))
	assert.Nil(t, frame.GetPixel(10, 0))
	assert.Nil(t, frame.GetPixel(0, 10))
}

func TestFrameFillRectClips(t *testing.T) {
	frame := NewFrame(10, 10)
	yellow := NewRGB(255, 255, 0)

	frame.FillRect(8, 8, 5, 5, yellow)

	assert.True(t, frame.GetPixel(8, 8).Equals(yellow))
	assert.True(t, frame.GetPixel(9, 9).Equals(yellow))
	assert.True(t, frame.GetPixel(7, 8).Equals(NewRGB(0, 0, 0)))
}

func TestFrameFill(t *testing.T) {
	frame := NewFrame(3, 2)
	blue := NewRGB(0, 0, 255)

	frame.Fill(blue)

	for i := 0; i < len(frame.Pixels); i += BytesPerPixel {
		assert.Equal(t, []byte{0, 0, 255}, frame.Pixels[i:i+3])
	}
}
