package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/brightcart/identity/testing"
)

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), mr.Addr(), time.Second)

	require.NoError(t, err)
	defer func() {
		_ = client.Close()
	}()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := New(context.Background(), addr, 100*time.Millisecond)

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "cache: ping redis")
}
