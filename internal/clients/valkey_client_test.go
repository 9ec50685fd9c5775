package clients

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsConnectionError(t *testing.T) {
	assert.False(t, isConnectionError(nil))
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.True(t, isConnectionError(errors.New("unexpected EOF")))
	assert.True(t, isConnectionError(errors.New("read tcp: i/o timeout")))
	assert.False(t, isConnectionError(errors.New("WRONGTYPE Operation against a key")))
}

func TestNewValkeyClient_RejectsTTLBelowOneSecond(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Minute, 500 * time.Millisecond} {
		client, err := NewValkeyClient(ValkeyOptions{Address: "127.0.0.1:1", TTL: ttl})
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "TTL")
	}
}
