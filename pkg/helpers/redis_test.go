package helpers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestPingRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer rdb.Close()
	assert.NoError(t, PingRedis(context.Background(), rdb))

	mr.Close()
	assert.Error(t, PingRedis(context.Background(), rdb))
}

func TestRedisGetJSON_MissingKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	var v signupPayload
	ok, err := RedisGetJSON(ctx, rdb, "absent", &v)
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, RedisSetJSON(ctx, rdb, "present", signupPayload{Email: "a@b.co"}, 0))
	ok, err = RedisGetJSON(ctx, rdb, "present", &v)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", v.Email)
}
