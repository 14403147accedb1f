package kvstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/handspeak/handspeak/internal/platform/kvstore"
)

func TestRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping networked test in short mode")
	}
	url := os.Getenv("HANDSPEAK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HANDSPEAK_TEST_REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parsing redis URL: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("pinging redis at %s: %v", url, err)
	}

	testKV(t, kvstore.NewRedis(client))
}
