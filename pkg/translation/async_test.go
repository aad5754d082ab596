package translation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	entries map[string]string // culture + "/" + resource -> format
	err     error
	calls   atomic.Int64
	release chan struct{} // when set, FindTranslation blocks until closed
}

func (s *stubRepository) FindTranslation(ctx context.Context, cultureName, resourceName string) (string, bool, error) {
	s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	if s.err != nil {
		return "", false, s.err
	}
	format, ok := s.entries[cultureName+"/"+resourceName]
	return format, ok, nil
}

func TestAsyncResolve(t *testing.T) {
	t.Parallel()

	t.Run("cache hit skips the repository", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		fx.set(t, "fr", translation.Resource{Name: "Greet", Format: "Bonjour {0}"})
		repo := &stubRepository{}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res, err := ar.Resolve(context.Background(), m, fx.culture(t, "fr"))
		require.NoError(t, err)

		assert.Equal(t, "Bonjour Eve", res.Text)
		assert.Equal(t, translation.QualityPerfect, res.Quality)
		assert.Zero(t, repo.calls.Load())
	})

	t.Run("cache miss consults the repository", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{entries: map[string]string{
			"fr/Greet": "Bonjour {0}",
		}}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res, err := ar.Resolve(context.Background(), m, fx.culture(t, "fr-fr"))
		require.NoError(t, err)

		assert.Equal(t, "Bonjour Eve", res.Text)
		assert.Equal(t, translation.QualityGood, res.Quality)
		assert.Equal(t, "fr", res.Achieved.Name())
		// One call per chain culture visited: fr-fr missed, fr hit.
		assert.Equal(t, int64(2), repo.calls.Load())
	})

	t.Run("repository miss falls back to original text", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res, err := ar.Resolve(context.Background(), m, fx.culture(t, "fr"))
		require.NoError(t, err)

		assert.Equal(t, "Hello Eve", res.Text)
		assert.Equal(t, translation.QualityNone, res.Quality)
		assert.True(t, res.TranslationWelcome)
	})

	t.Run("repository failure is treated as a miss", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{err: errors.New("store down")}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res, err := ar.Resolve(context.Background(), m, fx.culture(t, "fr"))
		require.NoError(t, err)

		assert.Equal(t, "Hello Eve", res.Text)
		assert.True(t, res.TranslationWelcome)
	})

	t.Run("unparseable repository format is treated as a miss", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{entries: map[string]string{
			"fr/Greet": "broken {0:N2}",
		}}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res, err := ar.Resolve(context.Background(), m, fx.culture(t, "fr"))
		require.NoError(t, err)

		assert.Equal(t, "Hello Eve", res.Text)
		assert.Equal(t, translation.QualityNone, res.Quality)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{}
		ar := translation.NewAsyncResolver(fx.resolver, repo)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		_, err := ar.Resolve(ctx, m, fx.culture(t, "fr"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("concurrent identical lookups collapse", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		repo := &stubRepository{
			entries: map[string]string{"fr/Greet": "Bonjour {0}"},
			release: make(chan struct{}),
		}
		ar := translation.NewAsyncResolver(fx.resolver, repo)
		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		fr := fx.culture(t, "fr")

		const goroutines = 8
		var wg sync.WaitGroup
		results := make([]translation.Result, goroutines)
		for i := range goroutines {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := ar.Resolve(context.Background(), m, fr)
				assert.NoError(t, err)
				results[i] = res
			}()
		}

		// Let all goroutines pile up on the in-flight lookup, then release.
		for repo.calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(10 * time.Millisecond)
		close(repo.release)
		wg.Wait()

		for _, res := range results {
			assert.Equal(t, "Bonjour Eve", res.Text)
		}
		assert.Less(t, repo.calls.Load(), int64(goroutines), "singleflight collapses concurrent lookups")
	})
}
