package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jwulff/campuscast/internal/domain"
)

// DefaultPort is the default Pixoo HTTP API port.
const DefaultPort = "80"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Second

// Client sends frames to one Pixoo device. It is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client

	mu    sync.Mutex
	picID int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoint overrides the full command URL.
func WithEndpoint(url string) Option {
	return func(c *Client) {
		c.endpoint = url
	}
}

// NewClient creates a client for addr, given as "host" or "host:port".
func NewClient(addr string, opts ...Option) *Client {
	c := &Client{
		endpoint:   Endpoint(addr),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the command URL for addr.
func Endpoint(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, DefaultPort)
	}
	return fmt.Sprintf("http://%s/post", addr)
}

// URL returns the command URL in use.
func (c *Client) URL() string {
	return c.endpoint
}

// sendCommand posts a command and checks the device's error code.
func (c *Client) sendCommand(ctx context.Context, command any) ([]byte, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var r Response
	if err := json.Unmarshal(body, &r); err == nil && r.ErrorCode != 0 {
		return nil, fmt.Errorf("device returned error_code %d", r.ErrorCode)
	}

	return body, nil
}

// SendFrame shows frame on the device, resetting the PicID counter on first
// use and whenever it reaches MaxPicID.
func (c *Client) SendFrame(ctx context.Context, frame *domain.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.picID == 0 || c.picID >= MaxPicID {
		if _, err := c.sendCommand(ctx, Request{Command: CommandResetGifID}); err != nil {
			return fmt.Errorf("failed to reset gif id: %w", err)
		}
		c.picID = 0
	}

	c.picID++
	if _, err := c.sendCommand(ctx, NewFrameRequest(frame, c.picID)); err != nil {
		return err
	}
	return nil
}

// GetDeviceTime queries the device time.
func (c *Client) GetDeviceTime(ctx context.Context) ([]byte, error) {
	return c.sendCommand(ctx, Request{Command: CommandDeviceTime})
}

// SetBrightness sets the display brightness (0-100).
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	_, err := c.sendCommand(ctx, NewBrightnessRequest(brightness))
	return err
}

// Ping checks that the device answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetDeviceTime(ctx)
	return err
}
