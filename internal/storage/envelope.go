package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope wraps a committed collection value for transports that carry no
// metadata of their own (NATS KV, Redis pub/sub).
type Envelope struct {
	Collection Collection      `json:"collection"`
	Origin     string          `json:"origin"`
	SavedAt    time.Time       `json:"savedAt"`
	Data       json.RawMessage `json:"data"`
}

// EncodeEnvelope wraps data for the given collection and origin.
func EncodeEnvelope(c Collection, origin string, data []byte) ([]byte, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON for collection %s", c)
	}
	env := Envelope{
		Collection: c,
		Origin:     origin,
		SavedAt:    time.Now().UTC(),
		Data:       json.RawMessage(data),
	}
	out, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return out, nil
}

// DecodeEnvelope unwraps a value produced by EncodeEnvelope.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	return env, nil
}
