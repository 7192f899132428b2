package database

import (
	"context"
	"sync"

	"github.com/koustreak/autoseq/internal/errs"
)

// OpenFunc connects to an engine and returns a ready DB.
type OpenFunc func(ctx context.Context, cfg *Config) (DB, error)

var (
	mu      sync.RWMutex
	openers = map[Driver]OpenFunc{}
)

// Register makes an engine available to Open. Engine packages call it from
// init; import internal/database/all to enable every built-in engine.
func Register(driver Driver, fn OpenFunc) {
	mu.Lock()
	defer mu.Unlock()
	openers[driver] = fn
}

// Open connects using the engine registered for cfg.Driver.
func Open(ctx context.Context, cfg *Config) (DB, error) {
	if cfg == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "database config is required")
	}
	mu.RLock()
	fn, ok := openers[cfg.Driver]
	mu.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "no database engine registered for %q", cfg.Driver)
	}
	return fn(ctx, cfg)
}
