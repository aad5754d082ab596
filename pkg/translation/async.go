package translation

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
)

// Repository is an external translation store consulted when the in-memory
// cache has no entry. Implementations typically sit on a file, a database or
// a remote service; they are never touched by the synchronous Resolver.
type Repository interface {
	// FindTranslation returns the format string registered for the culture
	// and resource name, or ok=false when the store has none.
	FindTranslation(ctx context.Context, cultureName, resourceName string) (format string, ok bool, err error)
}

// AsyncResolver resolves like Resolver but falls through to a Repository on
// cache misses. Concurrent lookups for the same (culture, resource) pair are
// collapsed into a single repository call.
type AsyncResolver struct {
	res    *Resolver
	repo   Repository
	group  singleflight.Group
	logger *slog.Logger
}

// AsyncResolverOption configures an AsyncResolver.
type AsyncResolverOption func(*AsyncResolver)

// WithAsyncResolverLogger sets the logger used for repository failures.
func WithAsyncResolverLogger(logger *slog.Logger) AsyncResolverOption {
	return func(a *AsyncResolver) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAsyncResolver wraps res with repository-backed fallback lookups.
func NewAsyncResolver(res *Resolver, repo Repository, opts ...AsyncResolverOption) *AsyncResolver {
	a := &AsyncResolver{
		res:    res,
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolve is contract-identical to Resolver.Resolve except that a cache miss
// consults the repository before falling back to "no translation". The only
// returned errors are context cancellation and deadline expiry; repository
// failures are logged and treated as misses.
func (a *AsyncResolver) Resolve(ctx context.Context, m *Message, target *culture.Culture) (Result, error) {
	return a.res.resolve(m, target, func(cu *culture.Culture, name string) (*composite.Format, bool, error) {
		if f, ok := a.res.cache.Lookup(cu, name); ok {
			return f, true, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		key := cu.Name() + "\x00" + name
		v, err, _ := a.group.Do(key, func() (any, error) {
			text, ok, err := a.repo.FindTranslation(ctx, cu.Name(), name)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}
			f, err := composite.Parse(text)
			if err != nil {
				a.logger.Warn("repository returned an unparseable format",
					slog.String("culture", cu.Name()),
					slog.String("resource", name),
					slog.String("error", err.Error()))
				return nil, nil
			}
			return f, nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			a.logger.Warn("repository lookup failed",
				slog.String("culture", cu.Name()),
				slog.String("resource", name),
				slog.String("error", err.Error()))
			return nil, false, nil
		}
		f, _ := v.(*composite.Format)
		return f, f != nil, nil
	})
}
