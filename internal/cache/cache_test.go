package cache

import (
	"context"
	"testing"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestCacheDisabledWithoutRedisAddr(t *testing.T) {
	c := New(config.Config{CacheTTL: time.Minute}, zaptest.NewLogger(t))
	assert.False(t, c.Enabled())

	// Every method degrades to a miss or a no-op; the snapshot pipeline
	// calls Invalidate unconditionally after a write.
	ctx := context.Background()
	var dst map[string]string
	assert.False(t, c.GetJSON(ctx, KeyPrefix+"revenue:latest", &dst))
	c.SetJSON(ctx, KeyPrefix+"revenue:latest", map[string]string{"k": "v"})
	c.Invalidate(ctx, KeyPrefix)
}

func TestCacheNilReceiverIsNoOp(t *testing.T) {
	var c *Cache
	assert.False(t, c.Enabled())
	c.Invalidate(context.Background(), KeyPrefix)
}
