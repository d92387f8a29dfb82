package redis

import "time"

// Config holds Redis connection settings and per-entity expiry
type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	// KeyPrefix namespaces every key written by the storage
	KeyPrefix string

	PoolSize       int
	MinIdleConns   int
	ConnectTimeout time.Duration

	// Guest players expire; registered players and their logins do not.
	// Sessions expire with their own ExpiresAt.
	GuestPlayerTTL time.Duration
	LobbyTTL       time.Duration
	GameTTL        time.Duration
}

// DefaultConfig returns the settings cmd/server starts from
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      "reversi",
		PoolSize:       10,
		MinIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
		GuestPlayerTTL: 24 * time.Hour,
		LobbyTTL:       24 * time.Hour,
		GameTTL:        7 * 24 * time.Hour,
	}
}
