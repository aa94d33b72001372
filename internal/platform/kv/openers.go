package kv

import (
	"context"
	"time"

	"receiptjar/internal/platform/config"
	perr "receiptjar/internal/platform/errors"
	"receiptjar/internal/platform/kv/pg"
	"receiptjar/internal/platform/logger"
)

// FromConf builds Config from a SERVICE_KV_ scoped view
func FromConf(cfg config.Conf, appName string) Config {
	kc := cfg.Prefix("SERVICE_KV_")
	c := Config{
		AppName: appName,
		Driver:  Driver(kc.MayEnum("DRIVER", string(DriverMemory), string(DriverMemory), string(DriverPG))),
	}
	if c.Driver == DriverPG {
		c.PG = PGConfig{
			URL:            kc.MustString("PG_URL"),
			MaxConns:       int32(kc.MayInt("PG_MAX_CONNS", 8)),
			LogSQL:         kc.MayBool("PG_LOG_SQL", false),
			SlowQueryMs:    kc.MayInt("PG_SLOW_MS", 250),
			ConnectRetries: kc.MayInt("PG_CONNECT_RETRIES", 20),
			PingTimeout:    kc.MayDuration("PG_PING_TIMEOUT", 3*time.Second),
		}
	}
	return c
}

// Open constructs the Store named by cfg.Driver
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	var o opener
	for _, fn := range opts {
		fn(&o)
	}
	if !o.hasLog {
		o.log = *logger.Get()
	}

	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverPG:
		return openPG(ctx, cfg, &o)
	default:
		return nil, perr.BadRequestf("unknown kv driver %q", cfg.Driver)
	}
}

// openPG opens the pool, waits for it to become healthy, and ensures schema
func openPG(ctx context.Context, cfg Config, o *opener) (Store, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(o.log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, perr.FromPostgresf(err, "kv open")
	}

	maxAttempts := cfg.PG.ConnectRetries
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()

		if lastErr == nil {
			s := newPGStore(p)
			if err := s.ensureSchema(ctx); err != nil {
				p.Close()
				return nil, err
			}
			return s, nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	p.Close()
	return nil, perr.Unavailablef("kv ping failed after %d attempts: %v", maxAttempts, lastErr)
}
