package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/strogmv/chatnotify/internal/adapter/cache/redis"
	"github.com/strogmv/chatnotify/internal/adapter/notifications"
	"github.com/strogmv/chatnotify/internal/adapter/push/fcm"
	"github.com/strogmv/chatnotify/internal/adapter/push/logsink"
	"github.com/strogmv/chatnotify/internal/adapter/repository/memory"
	"github.com/strogmv/chatnotify/internal/adapter/repository/postgres"
	"github.com/strogmv/chatnotify/internal/adapter/storage/s3"
	"github.com/strogmv/chatnotify/internal/config"
	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/circuitbreaker"
	"github.com/strogmv/chatnotify/internal/pkg/metrics"
	"github.com/strogmv/chatnotify/internal/pkg/presence"
	"github.com/strogmv/chatnotify/internal/port"
	"github.com/strogmv/chatnotify/internal/service"
	transport "github.com/strogmv/chatnotify/internal/transport/http"
)

type Container struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Redis  *goredis.Client

	RepoConversation port.ConversationRepository
	RepoUser         port.UserRepository
	Photos           port.PhotoURLResolver
	Push             port.PushProvider
	Presence         *presence.Store

	SvcDispatcher *service.Dispatcher

	memConversations *memory.ConversationRepositoryStub
	memUsers         *memory.UserRepositoryStub
	profileCache     *redis.CachedUserRepository
	closers          []func()
}

// Overrides replaces collaborators, mainly for tests.
type Overrides struct {
	Push port.PushProvider
}

func NewContainer(ctx context.Context, cfg *config.Config, ov Overrides) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initStores(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if cfg.S3Bucket != "" {
		photos, err := s3.New(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Endpoint, cfg.PhotoURLTTL)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Photos = photos
	}

	c.Presence = presence.NewStore(c.Redis, cfg.PresenceTTL)

	push, err := c.initPush(ctx, ov.Push)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Push = push

	c.SvcDispatcher = service.NewDispatcher(
		c.RepoConversation,
		service.NewProfileLookup(c.RepoUser, c.Photos),
		c.Push,
	)

	return c, nil
}

func (c *Container) initStores(ctx context.Context) error {
	cfg := c.Config
	switch cfg.Store {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		c.DB = pool
		c.closers = append(c.closers, pool.Close)
		c.RepoConversation = postgres.NewConversationRepository(pool)
		c.RepoUser = postgres.NewUserRepository(pool)
	default:
		c.memConversations = memory.NewConversationRepositoryStub()
		c.memUsers = memory.NewUserRepositoryStub()
		c.RepoConversation = c.memConversations
		c.RepoUser = c.memUsers
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.Redis = client
		c.closers = append(c.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		c.profileCache = redis.NewCachedUserRepository(c.RepoUser, client, cfg.ProfileTTL)
		c.RepoUser = c.profileCache
	}
	return nil
}

func (c *Container) initPush(ctx context.Context, override port.PushProvider) (port.PushProvider, error) {
	cfg := c.Config
	var (
		provider         port.PushProvider
		isRecipientError func(error) bool
	)
	switch {
	case override != nil:
		provider = override
	case cfg.PushProvider == "fcm":
		client, err := fcm.New(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		provider = client
		isRecipientError = fcm.IsRecipientError
	default:
		provider = logsink.New()
	}

	gw := notifications.NewGateway(provider)
	gw.IsRecipientError = isRecipientError
	if cfg.PushBreakerThreshold > 0 {
		gw.Breaker = circuitbreaker.NewBreaker(cfg.PushBreakerThreshold, cfg.PushBreakerTimeout, 1)
		gw.Breaker.OnStateChange(func(_, to circuitbreaker.State) {
			metrics.SetBreakerOpen(to == circuitbreaker.Open)
		})
	}
	if cfg.SuppressWhileViewing {
		gw.UserMuteChecker = notifications.ViewingMuteChecker(c.Presence.IsViewing)
	}
	return gw, nil
}

// HTTPHandler builds the HTTP surface over the container's services.
func (c *Container) HTTPHandler() http.Handler {
	return transport.NewRouter(c.SvcDispatcher, c.Presence)
}

// Fixtures seed the in-memory stores for local runs.
type Fixtures struct {
	Conversations []domain.Conversation `json:"conversations"`
	Users         []domain.User         `json:"users"`
}

// SeedFile loads fixtures from a JSON file into the in-memory stores.
func (c *Container) SeedFile(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err := json.Unmarshal(b, &fx); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	return c.Seed(ctx, fx)
}

// Seed writes fixtures into the in-memory stores and drops any cached copies of the
// seeded profiles. It fails for other store kinds.
func (c *Container) Seed(ctx context.Context, fx Fixtures) error {
	if c.memConversations == nil || c.memUsers == nil {
		return fmt.Errorf("seeding requires STORE=memory")
	}
	for i := range fx.Conversations {
		if err := c.memConversations.Save(ctx, &fx.Conversations[i]); err != nil {
			return fmt.Errorf("seed conversation: %w", err)
		}
	}
	for i := range fx.Users {
		if err := c.memUsers.Save(ctx, &fx.Users[i]); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		if c.profileCache != nil {
			if err := c.profileCache.Invalidate(ctx, fx.Users[i].ID); err != nil {
				return fmt.Errorf("invalidate cached profile: %w", err)
			}
		}
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
