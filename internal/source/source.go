// Package source provides the Record Source implementations: the one place
// advocate records come from. Every implementation returns the full ordered
// set or an error, never a partial set.
package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/redis"
)

// Source returns the full ordered set of stored advocates.
type Source interface {
	ListAll(ctx context.Context) ([]advocate.Advocate, error)
}

// Invalidator is implemented by sources that hold a cached copy of the set.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Seeder is implemented by sources backed by a writable store.
type Seeder interface {
	Seed(ctx context.Context, records []advocate.Advocate, replace bool) (int, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) ([]advocate.Advocate, error)

func (f Func) ListAll(ctx context.Context) ([]advocate.Advocate, error) { return f(ctx) }

// Deps carries the already-connected clients a source chain may need. Nil
// fields mean the dependency is unavailable.
type Deps struct {
	DB      *postgres.Client
	Redis   *pkgredis.Client
	Metrics *metrics.Metrics
}

// New builds the source selected by cfg.Source.Kind, instrumented when
// metrics are present and cached in redis when enabled and reachable.
func New(cfg *config.Config, deps Deps) (Source, error) {
	var base Source
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		if deps.DB == nil {
			return nil, apperrors.New(apperrors.ErrSourceMisconfigured, http.StatusInternalServerError, "postgres source selected but no database connection")
		}
		base = NewPostgres(deps.DB)
	case config.SourceFixture:
		base = NewFixture()
	default:
		return nil, apperrors.Newf(apperrors.ErrSourceMisconfigured, http.StatusInternalServerError, "unknown source kind %q", cfg.Source.Kind)
	}

	src := base
	if deps.Metrics != nil {
		src = NewInstrumented(src, cfg.Source.Kind, deps.Metrics)
	}
	if cfg.Source.Cache && deps.Redis != nil {
		src = NewCached(src, deps.Redis, cfg.Redis.CacheTTL, deps.Metrics)
	}
	if s, ok := base.(Seeder); ok {
		return &seedable{Source: src, seeder: s}, nil
	}
	return src, nil
}

// seedable keeps the store's Seeder reachable through the decorators and
// drops the cached set after a seed.
type seedable struct {
	Source
	seeder Seeder
}

func (s *seedable) Seed(ctx context.Context, records []advocate.Advocate, replace bool) (int, error) {
	n, err := s.seeder.Seed(ctx, records, replace)
	if err != nil {
		return n, err
	}
	if inv, ok := s.Source.(Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			return n, fmt.Errorf("invalidating cache after seed: %w", err)
		}
	}
	return n, nil
}

func (s *seedable) Invalidate(ctx context.Context) error {
	if inv, ok := s.Source.(Invalidator); ok {
		return inv.Invalidate(ctx)
	}
	return nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
}
