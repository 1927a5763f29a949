package domain

import "fmt"

// PanelSize is the edge length of the square LED panel a frame is drawn for.
const PanelSize = 64

// BytesPerPixel is the number of bytes per pixel (RGB).
const BytesPerPixel = 3

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// NewRGB creates a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Equals checks if two RGB colors are equal.
func (c RGB) Equals(other RGB) bool {
	return c == other
}

func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// Frame is a rendered screen for a pixel panel.
type Frame struct {
	Width  int
	Height int
	// Pixels is row-major RGB: [r0,g0,b0, r1,g1,b1, ...]
	Pixels []byte
}

// NewFrame creates a black frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*BytesPerPixel),
	}
}

// NewFrameWithColor creates a frame filled with color.
func NewFrameWithColor(width, height int, color RGB) *Frame {
	f := NewFrame(width, height)
	f.Fill(color)
	return f
}

func (f *Frame) offset(x, y int) (int, bool) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0, false
	}
	return (y*f.Width + x) * BytesPerPixel, true
}

// SetPixel sets one pixel. Out of bounds coordinates are ignored, so text
// and bars may be drawn partially off-panel.
func (f *Frame) SetPixel(x, y int, color RGB) {
	i, ok := f.offset(x, y)
	if !ok {
		return
	}
	f.Pixels[i] = color.R
	f.Pixels[i+1] = color.G
	f.Pixels[i+2] = color.B
}

// GetPixel returns the color at x, y, or nil if out of bounds.
func (f *Frame) GetPixel(x, y int) *RGB {
	i, ok := f.offset(x, y)
	if !ok {
		return nil
	}
	return &RGB{R: f.Pixels[i], G: f.Pixels[i+1], B: f.Pixels[i+2]}
}

// Fill paints the whole frame.
func (f *Frame) Fill(color RGB) {
	f.FillRect(0, 0, f.Width, f.Height, color)
}

// FillRect paints a rectangle, clipped to the frame.
func (f *Frame) FillRect(x, y, width, height int, color RGB) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			f.SetPixel(x+dx, y+dy, color)
		}
	}
}
