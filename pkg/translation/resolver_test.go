package translation_test

import (
	"testing"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	reg      *culture.Registry
	cache    *translation.Cache
	resolver *translation.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := newRegistry(t)
	cache := translation.NewCache(reg)
	return &fixture{
		reg:      reg,
		cache:    cache,
		resolver: translation.NewResolver(reg, cache),
	}
}

func (fx *fixture) culture(t *testing.T, name string) *culture.Culture {
	t.Helper()

	c, err := fx.reg.GetOrCreate(name)
	require.NoError(t, err)
	return c
}

func (fx *fixture) set(t *testing.T, cultureName string, resources ...translation.Resource) {
	t.Helper()

	faults, err := fx.cache.SetTranslations(fx.culture(t, cultureName), resources)
	require.NoError(t, err)
	require.Empty(t, faults)
}

func (fx *fixture) message(t *testing.T, resName, format string, args ...string) *translation.Message {
	t.Helper()

	m, err := translation.NewMessage(fx.reg.Default(), format, args,
		translation.WithResourceName(resName))
	require.NoError(t, err)
	return m
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("fallback to parent grades good", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		fx.set(t, "fr", translation.Resource{Name: "Greet", Format: "Bonjour {0}"})

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res := fx.resolver.Resolve(m, fx.culture(t, "fr-fr"))

		assert.Equal(t, "Bonjour Eve", res.Text)
		assert.Equal(t, translation.QualityGood, res.Quality)
		assert.Equal(t, "fr", res.Achieved.Name())
		assert.False(t, res.TranslationWelcome)
		assert.False(t, res.ArgCountMismatch)
	})

	t.Run("exact culture grades perfect", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		fx.set(t, "fr-fr", translation.Resource{Name: "Greet", Format: "Salut {0}"})

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res := fx.resolver.Resolve(m, fx.culture(t, "fr-fr"))

		assert.Equal(t, "Salut Eve", res.Text)
		assert.Equal(t, translation.QualityPerfect, res.Quality)
		assert.Equal(t, "fr-fr", res.Achieved.Name())
	})

	t.Run("later language groups grade bad then awful", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		target, err := fx.reg.Canonicalize("fr-ch,es,de", culture.ModeTranslation)
		require.NoError(t, err)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")

		fx.set(t, "de", translation.Resource{Name: "Greet", Format: "Hallo {0}"})
		res := fx.resolver.Resolve(m, target)
		assert.Equal(t, "Hallo Eve", res.Text)
		assert.Equal(t, translation.QualityAwful, res.Quality)

		fx.set(t, "es", translation.Resource{Name: "Greet", Format: "Hola {0}"})
		res = fx.resolver.Resolve(m, target)
		assert.Equal(t, "Hola Eve", res.Text)
		assert.Equal(t, translation.QualityBad, res.Quality)
	})

	t.Run("code-default target is exact", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		m := fx.message(t, "Greet", "Hello {0}", "Eve")

		for _, target := range []*culture.Culture{nil, fx.reg.Default(), fx.reg.Root(), fx.culture(t, "en")} {
			res := fx.resolver.Resolve(m, target)
			assert.Equal(t, "Hello Eve", res.Text)
			assert.Equal(t, translation.QualityExact, res.Quality)
			assert.False(t, res.TranslationWelcome)
		}
	})

	t.Run("default reached through a selection chain is exact", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		target, err := fx.reg.Canonicalize("fr,en", culture.ModeSelection)
		require.NoError(t, err)

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res := fx.resolver.Resolve(m, target)

		assert.Equal(t, "Hello Eve", res.Text)
		assert.Equal(t, translation.QualityExact, res.Quality)
	})

	t.Run("no hit anywhere flags translation welcome", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res := fx.resolver.Resolve(m, fx.culture(t, "fr-fr"))

		assert.Equal(t, "Hello Eve", res.Text)
		assert.Equal(t, translation.QualityNone, res.Quality)
		assert.Nil(t, res.Achieved)
		assert.True(t, res.TranslationWelcome)
	})

	t.Run("argument count drift still renders", func(t *testing.T) {
		t.Parallel()

		fx := newFixture(t)
		fx.set(t, "fr", translation.Resource{Name: "Greet", Format: "Bonjour {0} et {1}"})

		m := fx.message(t, "Greet", "Hello {0}", "Eve")
		res := fx.resolver.Resolve(m, fx.culture(t, "fr"))

		assert.Equal(t, "Bonjour Eve et ", res.Text, "missing args render empty")
		assert.True(t, res.ArgCountMismatch)
		require.NotNil(t, res.Found)
		assert.Equal(t, 2, res.Found.ArgCount())
		assert.Equal(t, translation.QualityPerfect, res.Quality)
	})
}

func TestQualityOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, translation.QualityNone < translation.QualityAwful)
	assert.True(t, translation.QualityAwful < translation.QualityBad)
	assert.True(t, translation.QualityBad < translation.QualityGood)
	assert.True(t, translation.QualityGood < translation.QualityPerfect)
	assert.True(t, translation.QualityPerfect < translation.QualityExact)

	assert.Equal(t, "Good", translation.QualityGood.String())
	assert.Equal(t, "None", translation.QualityNone.String())
}
