package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/reversigame-go/internal/dependencies/clock"
	"github.com/mcoot/reversigame-go/internal/dependencies/random"
	"github.com/mcoot/reversigame-go/internal/services/auth"
	"github.com/mcoot/reversigame-go/internal/services/game"
	"github.com/mcoot/reversigame-go/internal/services/lobby"
	"github.com/mcoot/reversigame-go/internal/services/scoring"
	"github.com/mcoot/reversigame-go/internal/storage"
	"github.com/mcoot/reversigame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/reversigame-go/internal/storage/redis"
	"github.com/mcoot/reversigame-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	ScoringService  *scoring.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	AuthService     *auth.Service
	HubManager      *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Storage replaces the backend chosen by StorageType (optional)
	Storage storage.Storage
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch {
	case cfg.Storage != nil:
		store = cfg.Storage
	case storageType == StorageTypeMemory:
		store = memory.New()
	case storageType == StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	scoringService := scoring.New()
	gameController := game.NewController(store, scoringService, clk, rnd, logger)
	lobbyController := lobby.NewController(store, gameController, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg, logger)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Logger:          logger,
		ScoringService:  scoringService,
		GameController:  gameController,
		LobbyController: lobbyController,
		AuthService:     authService,
		HubManager:      hubManager,
	}
}

// Close disconnects every event stream and releases the storage backend
func (a *App) Close() error {
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
