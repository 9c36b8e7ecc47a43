package cache

import (
	"context"

	"github.com/matzehuels/forcegraph/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendNull   = "null"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	Dir     string // file and badger backends
	URL     string // redis and mongo backends
	Prefix  string // redis key prefix
}

// Open creates the configured backend wrapped with [Observed]. An empty
// backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendNull:
		c = NewNullCache()
	case BackendBadger:
		c, err = NewBadgerCache(opts.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.URL, opts.Prefix)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.URL, "")
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Observed(c), nil
}

// Clear empties c if the backend supports it.
func Clear(ctx context.Context, c Cache) error {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return errors.New(errors.ErrCodeUnsupported, "cache backend %T cannot be cleared", c)
}
