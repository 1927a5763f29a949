// Package pixoo drives a Divoom Pixoo64 panel over its local HTTP API.
//
// Every command is a JSON object POSTed to http://<addr>/post. A frame is
// sent as a one-picture animation whose PicData is the base64 of the raw
// row-major RGB bytes (64*64*3 = 12288 bytes). The panel ignores a frame
// whose PicID is not above the last accepted one, so the counter is reset
// with Draw/ResetHttpGifId on first use and before it reaches MaxPicID.
package pixoo

import (
	"encoding/base64"
	"fmt"

	"github.com/jwulff/campuscast/internal/domain"
)

// Command names.
const (
	CommandSendGif       = "Draw/SendHttpGif"
	CommandResetGifID    = "Draw/ResetHttpGifId"
	CommandDeviceTime    = "Device/GetDeviceTime"
	CommandSetBrightness = "Channel/SetBrightness"
)

// MaxPicID is the PicID after which the counter is reset.
const MaxPicID = 1000

// DefaultSpeed is the frame duration sent with single-frame animations, in ms.
const DefaultSpeed = 1000

// Request is a command without arguments.
type Request struct {
	Command string `json:"Command"`
}

// FrameRequest is a Draw/SendHttpGif command carrying one picture.
type FrameRequest struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

// BrightnessRequest is a Channel/SetBrightness command.
type BrightnessRequest struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

// Response is the envelope every command answers with.
type Response struct {
	ErrorCode int `json:"error_code"`
}

// EncodeFrame returns the PicData form of a frame.
func EncodeFrame(frame *domain.Frame) string {
	return base64.StdEncoding.EncodeToString(frame.Pixels)
}

// DecodeFrame parses PicData back into a frame of the given size.
func DecodeFrame(picData string, width, height int) (*domain.Frame, error) {
	pixels, err := base64.StdEncoding.DecodeString(picData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pic data: %w", err)
	}
	if want := width * height * domain.BytesPerPixel; len(pixels) != want {
		return nil, fmt.Errorf("pic data has %d bytes, want %d", len(pixels), want)
	}
	return &domain.Frame{Width: width, Height: height, Pixels: pixels}, nil
}

// NewFrameRequest builds the command showing frame as picture picID.
// PicIDs start at 1.
func NewFrameRequest(frame *domain.Frame, picID int) FrameRequest {
	return FrameRequest{
		Command:  CommandSendGif,
		PicNum:   1,
		PicWidth: frame.Width,
		PicID:    max(picID, 1),
		PicSpeed: DefaultSpeed,
		PicData:  EncodeFrame(frame),
	}
}

// NewBrightnessRequest builds a brightness command clamped to 0..100.
func NewBrightnessRequest(brightness int) BrightnessRequest {
	return BrightnessRequest{
		Command:    CommandSetBrightness,
		Brightness: min(max(brightness, 0), 100),
	}
}
