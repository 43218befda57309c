package smartcut

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder   Embedder
	provider   string
	model      string
	dimensions int

	workers         int
	queueSize       int
	referenceScript string

	defaultTopK int
	maxTopK     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required: analysis
// and search both embed descriptive text.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithModel identifies the embedding model behind the embedder. The
// provider, model, and dimensions form the model tag recorded with
// every indexed vector. Defaults to openai/text-embedding-3-small/1536.
func WithModel(provider, model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = provider
		c.model = model
		c.dimensions = dimensions
	})
}

// WithPipeline configures the analysis worker pool.
// Defaults: 4 workers, queue of 64.
func WithPipeline(workers, queueSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = workers
		c.queueSize = queueSize
	})
}

// WithReferenceScript sets the fallback script used for alignment when
// a take carries none of its own.
func WithReferenceScript(script string) Option {
	return optionFunc(func(c *clientConfig) {
		c.referenceScript = script
	})
}

// WithSearchLimits sets the default and maximum result counts.
// Defaults: 10 and 50.
func WithSearchLimits(defaultTopK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultTopK
		c.maxTopK = maxTopK
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
