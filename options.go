package shoplens

import (
	"go.uber.org/zap"

	engineuc "github.com/shoplens/shoplens/internal/usecase/engine"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs      []string
	password   string
	dimensions int
	embedder   Embedder
	logger     *zap.Logger
	engine     engineuc.Config
}

// WithRedis sets the Redis connection addresses.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.addrs = addrs
	}
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithEmbedder sets the embedding provider. Required for both indexing and
// querying.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithDimensions sets the embedding vector width used for the chunk index.
func WithDimensions(dim int) Option {
	return func(c *clientConfig) {
		c.dimensions = dim
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithConfidenceThreshold overrides the confidence gate for escalation and
// relaxation.
func WithConfidenceThreshold(threshold float64) Option {
	return func(c *clientConfig) {
		c.engine.ConfidenceThreshold = threshold
	}
}

// WithTopK overrides the default result count.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		c.engine.TopK = k
	}
}
