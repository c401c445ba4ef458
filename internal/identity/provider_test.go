package identity

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
)

func newTestProvider(t *testing.T) (Provider, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisProvider(client), client
}

func TestResolveValidTokenRefreshesTTL(t *testing.T) {
	p, client := newTestProvider(t)
	ctx := context.Background()

	key := cache.LoginTokenKey("tok-abc")
	if err := client.HSet(ctx, key, "userId", "7", "username", "alice").Err(); err != nil {
		t.Fatal(err)
	}

	id, err := p.Resolve(ctx, "tok-abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id == nil || id.UserID != 7 || id.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// 命中之后滑动续期
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("token TTL not refreshed: ttl=%v err=%v", ttl, err)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	p, _ := newTestProvider(t)
	id, err := p.Resolve(context.Background(), "no-such-token")
	if err != nil || id != nil {
		t.Fatalf("id=%+v err=%v, want nil, nil", id, err)
	}
}

func TestResolveMalformedSession(t *testing.T) {
	p, client := newTestProvider(t)
	ctx := context.Background()

	key := cache.LoginTokenKey("tok-bad")
	if err := client.HSet(ctx, key, "userId", "not-a-number").Err(); err != nil {
		t.Fatal(err)
	}
	id, err := p.Resolve(ctx, "tok-bad")
	if err != nil || id != nil {
		t.Fatalf("id=%+v err=%v, want nil, nil", id, err)
	}
}
