package pixoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingServer answers every command with error_code 0 and keeps the
// raw command bodies.
type recordingServer struct {
	mu       sync.Mutex
	commands []map[string]any
}

func (r *recordingServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var cmd map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&cmd))

		r.mu.Lock()
		r.commands = append(r.commands, cmd)
		r.mu.Unlock()

		_, _ = w.Write([]byte(`{"error_code":0}`))
	}
}

func (r *recordingServer) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c["Command"].(string))
	}
	return out
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient("unused", WithEndpoint(server.URL+"/post"), WithHTTPClient(server.Client()))
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "http://192.168.1.100:80/post", Endpoint("192.168.1.100"))
	assert.Equal(t, "http://192.168.1.100:8080/post", Endpoint("192.168.1.100:8080"))
	assert.Equal(t, "http://192.168.1.100:80/post", NewClient("192.168.1.100").URL())
}

func TestClientSendFrameResetsFirst(t *testing.T) {
	rec := &recordingServer{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	client := newTestClient(server)
	frame := domain.NewFrameWithColor(64, 64, domain.NewRGB(255, 0, 0))

	require.NoError(t, client.SendFrame(context.Background(), frame))
	require.NoError(t, client.SendFrame(context.Background(), frame))

	assert.Equal(t, []string{CommandResetGifID, CommandSendGif, CommandSendGif}, rec.names())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, float64(1), rec.commands[1]["PicID"])
	assert.Equal(t, float64(2), rec.commands[2]["PicID"])
	assert.Equal(t, float64(64), rec.commands[1]["PicWidth"])

	sent, err := DecodeFrame(rec.commands[1]["PicData"].(string), 64, 64)
	require.NoError(t, err)
	assert.True(t, sent.GetPixel(63, 63).Equals(domain.NewRGB(255, 0, 0)))
}

func TestClientSendFrameWrapsPicID(t *testing.T) {
	rec := &recordingServer{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	client := newTestClient(server)
	client.picID = MaxPicID

	require.NoError(t, client.SendFrame(context.Background(), domain.NewFrame(64, 64)))
	assert.Equal(t, []string{CommandResetGifID, CommandSendGif}, rec.names())
	assert.Equal(t, 1, client.picID)
}

func TestClientSendFrameError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.SendFrame(context.Background(), domain.NewFrame(64, 64))
	assert.Error(t, err)
}

func TestClientDeviceErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":1}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	err := client.SetBrightness(context.Background(), 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error_code 1")
}

func TestClientSendFrameTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	hc := server.Client()
	hc.Timeout = 50 * time.Millisecond
	client := NewClient("unused", WithEndpoint(server.URL+"/post"), WithHTTPClient(hc))

	err := client.SendFrame(context.Background(), domain.NewFrame(64, 64))
	assert.Error(t, err)
}

func TestClientGetDeviceTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cmd Request
		_ = json.NewDecoder(r.Body).Decode(&cmd)
		assert.Equal(t, CommandDeviceTime, cmd.Command)

		_, _ = w.Write([]byte(`{"error_code":0,"UTCTime":1706000000}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	resp, err := client.GetDeviceTime(context.Background())

	require.NoError(t, err)
	assert.Contains(t, string(resp), "UTCTime")
}

func TestClientSetBrightness(t *testing.T) {
	var received BrightnessRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"error_code":0}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	require.NoError(t, client.SetBrightness(context.Background(), 75))

	assert.Equal(t, CommandSetBrightness, received.Command)
	assert.Equal(t, 75, received.Brightness)
}

func TestClientPing(t *testing.T) {
	rec := &recordingServer{}
	server := httptest.NewServer(rec.handler(t))
	defer server.Close()

	assert.NoError(t, newTestClient(server).Ping(context.Background()))
}

func TestClientPingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	hc := &http.Client{Timeout: 100 * time.Millisecond}
	client := NewClient("unused", WithEndpoint(server.URL+"/post"), WithHTTPClient(hc))

	assert.Error(t, client.Ping(context.Background()))
}
