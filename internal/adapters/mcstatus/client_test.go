package mcstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOnline(t *testing.T) {
	var gotHost string
	var gotPort uint16
	c := New(withQuery(func(_ context.Context, host string, port uint16) (ping, error) {
		gotHost, gotPort = host, port
		return ping{Online: 2, Max: 50, Sample: []string{"Steve", " ", "Alex"}, Version: "Paper 1.20.4"}, nil
	}))

	st, err := c.Status(context.Background(), "play.example.org:25567")
	require.NoError(t, err)
	assert.Equal(t, "play.example.org", gotHost)
	assert.Equal(t, uint16(25567), gotPort)

	assert.True(t, st.Online)
	assert.Equal(t, "play.example.org:25567", st.Address)
	assert.Equal(t, 2, st.PlayerCount)
	assert.Equal(t, 50, st.MaxPlayers)
	assert.Equal(t, []string{"Steve", "Alex"}, st.Players)
	assert.Equal(t, "Paper 1.20.4", st.Version)
}

func TestStatusDefaultPort(t *testing.T) {
	var gotPort uint16
	c := New(withQuery(func(_ context.Context, _ string, port uint16) (ping, error) {
		gotPort = port
		return ping{}, nil
	}))
	_, err := c.Status(context.Background(), "play.example.org")
	require.NoError(t, err)
	assert.Equal(t, uint16(25565), gotPort)
}

func TestStatusQueryFailure(t *testing.T) {
	refused := errors.New("connection refused")
	c := New(withQuery(func(context.Context, string, uint16) (ping, error) {
		return ping{}, refused
	}))

	_, err := c.Status(context.Background(), "play.example.org:25567")
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "play.example.org:25567", qe.Address)
	assert.ErrorIs(t, err, refused)
}

func TestStatusAppliesTimeout(t *testing.T) {
	c := New(WithTimeout(20*time.Millisecond), withQuery(func(ctx context.Context, _ string, _ uint16) (ping, error) {
		<-ctx.Done()
		return ping{}, ctx.Err()
	}))

	start := time.Now()
	_, err := c.Status(context.Background(), "play.example.org")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStatusBadAddress(t *testing.T) {
	called := false
	c := New(withQuery(func(context.Context, string, uint16) (ping, error) {
		called = true
		return ping{}, nil
	}))

	for _, addr := range []string{"", "  ", ":25565", "play.example.org:abc", "play.example.org:0", "play.example.org:70000"} {
		_, err := c.Status(context.Background(), addr)
		var ae *AddressError
		assert.ErrorAs(t, err, &ae, addr)
	}
	assert.False(t, called)
}

func TestWithTimeoutIgnoresZero(t *testing.T) {
	c := New(WithTimeout(0))
	assert.Equal(t, defaultTimeout, c.timeout)
}
