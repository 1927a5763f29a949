package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrNotFound(t *testing.T) {
	err := ErrNotFound{Resource: "notice", ID: "n-1"}

	assert.Equal(t, "notice not found: n-1", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("toggle: %w", ErrNotFound{Resource: "notice", ID: "n-1"})
	assert.True(t, IsNotFound(err))
}

func TestIsNotFoundFalse(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(assert.AnError))
}

func TestEnvelopeRoundTrip(t *testing.T) {
	raw, err := EncodeEnvelope(CollectionNotices, "proc-1", []byte(`[{"id":"n-1"}]`))
	require.NoError(t, err)

	env, err := DecodeEnvelope(raw)
	require.NoError(t, err)

	assert.Equal(t, CollectionNotices, env.Collection)
	assert.Equal(t, "proc-1", env.Origin)
	assert.False(t, env.SavedAt.IsZero())
	assert.JSONEq(t, `[{"id":"n-1"}]`, string(env.Data))
}

func TestEncodeEnvelopeRejectsInvalidJSON(t *testing.T) {
	_, err := EncodeEnvelope(CollectionDevices, "proc-1", []byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`garbage`))
	assert.Error(t, err)
}
