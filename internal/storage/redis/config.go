package redis

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (redis://...)
	URL string

	// PoolSize is the maximum number of connections
	PoolSize int

	// MinIdleConns is the minimum number of idle connections
	MinIdleConns int

	// MatchHistoryMax caps the per-player match list length
	MatchHistoryMax int
}

// DefaultConfig returns default Redis configuration
func DefaultConfig() Config {
	return Config{
		PoolSize:        10,
		MinIdleConns:    2,
		MatchHistoryMax: 50,
	}
}
