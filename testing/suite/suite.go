// Package suite starts throwaway backing services for integration tests.
package suite

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/noughts-crosses/internal/repository"
)

const (
	expireSeconds   = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// Redis is a running redis container with a session repository on top.
type Redis struct {
	Addr     string
	Client   *redis.Client
	Sessions repository.SessionRepository
}

// NewRedis starts a redis container for the test and stores sessions in it
// with sessionTTL. The test is skipped when no docker daemon is reachable.
func NewRedis(t *testing.T, sessionTTL time.Duration) (context.Context, *Redis) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	addr := startContainer(t)
	client := connect(ctx, t, addr)

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, &Redis{
		Addr:     addr,
		Client:   client,
		Sessions: repository.NewSessionRepository(client, sessionTTL),
	}
}

// OtherProcess returns a session repository on its own connection, as a
// second server instance would have.
func (that *Redis) OtherProcess(ctx context.Context, t *testing.T, sessionTTL time.Duration) repository.SessionRepository {
	t.Helper()

	return repository.NewSessionRepository(connect(ctx, t, that.Addr), sessionTTL)
}

func startContainer(t *testing.T) string {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	pool.MaxWait = maxWaitDuration

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis container: %v", err)
		}
	})

	// never returns error
	_ = resource.Expire(expireSeconds)

	addr := resource.GetHostPort(redisPort)

	if err = pool.Retry(func() error {
		probe := redis.NewClient(&redis.Options{Addr: addr})
		defer probe.Close()

		return probe.Ping(context.Background()).Err()
	}); err != nil {
		t.Fatalf("redis did not come up: %v", err)
	}

	return addr
}

func connect(ctx context.Context, t *testing.T, addr string) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	return client
}
