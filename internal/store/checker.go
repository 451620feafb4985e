// Package store owns the clients for the service's backing stores and the
// readiness probe over them.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is one named readiness probe.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// Result of probing a single dependency.
type Result struct {
	Name  string
	Error error
}

// Checker probes every registered dependency.
type Checker struct {
	deps []Dependency
}

func NewChecker(deps ...Dependency) *Checker {
	return &Checker{deps: deps}
}

// PostgresDependency wraps a pool (or any Pinger) as a Dependency.
func PostgresDependency(p Pinger) Dependency {
	return Dependency{Name: "postgres", Ping: p.Ping}
}

// RedisDependency wraps a redis client as a Dependency.
func RedisDependency(c redis.UniversalClient) Dependency {
	return Dependency{Name: "redis", Ping: func(ctx context.Context) error {
		return c.Ping(ctx).Err()
	}}
}

// Check pings every dependency concurrently, each bounded by pingTimeout.
// Results keep registration order. The returned error joins all failures.
func (c *Checker) Check(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(c.deps))
	done := make(chan struct{}, len(c.deps))
	for i, d := range c.deps {
		go func(i int, d Dependency) {
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			results[i] = Result{Name: d.Name, Error: d.Ping(pctx)}
			done <- struct{}{}
		}(i, d)
	}
	for range c.deps {
		<-done
	}

	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Error))
		}
	}
	return results, errors.Join(errs...)
}

var _ Pinger = (*pgxpool.Pool)(nil)
