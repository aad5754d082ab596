package translation

import (
	"io"
	"log/slog"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
)

// Quality grades how closely a resolved translation matches the requested
// target culture. Higher is better.
type Quality int8

const (
	// QualityNone: no translation anywhere in the chain; original text used.
	QualityNone Quality = iota

	// QualityAwful: supplied by a culture two or more language groups away.
	QualityAwful

	// QualityBad: supplied by the second language group of the chain.
	QualityBad

	// QualityGood: supplied by an ancestor sharing the target's language.
	QualityGood

	// QualityPerfect: supplied by the exact target culture.
	QualityPerfect

	// QualityExact: the target is the code-default culture; the original
	// text is by definition the right one.
	QualityExact
)

func (q Quality) String() string {
	switch q {
	case QualityNone:
		return "None"
	case QualityAwful:
		return "Awful"
	case QualityBad:
		return "Bad"
	case QualityGood:
		return "Good"
	case QualityPerfect:
		return "Perfect"
	case QualityExact:
		return "Exact"
	default:
		return "Unknown"
	}
}

// Result is the outcome of resolving a message against a target culture.
// Resolution always succeeds: absence of a translation is a quality signal,
// not an error.
type Result struct {
	// Text is the display text: the translated rendering on a hit, the
	// message's original text otherwise.
	Text string

	// Achieved is the culture that supplied the format, the code-default
	// culture for Exact results, or nil when no translation was found.
	Achieved *culture.Culture

	// Quality grades the chain distance between target and Achieved.
	Quality Quality

	// TranslationWelcome flags a message that found no translation anywhere
	// in the chain, so the caller can raise a missing-translation issue.
	TranslationWelcome bool

	// ArgCountMismatch flags a hit whose expected argument count differs
	// from the message's placeholder count. The text is rendered anyway:
	// missing arguments are empty, extra slots unused.
	ArgCountMismatch bool

	// Found is the format that supplied the text, for mismatch reporting.
	Found *composite.Format
}

// Resolver produces translated text from the in-memory cache only. It is
// synchronous, lock-free, and never blocks on I/O.
type Resolver struct {
	reg    *culture.Registry
	cache  *Cache
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger used for debug output.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver over reg and cache.
func NewResolver(reg *culture.Registry, cache *Cache, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		reg:    reg,
		cache:  cache,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks target's fallback chain looking up the message's resource
// name and renders the first hit with the message's captured placeholder
// values. A nil target means the code-default culture.
func (r *Resolver) Resolve(m *Message, target *culture.Culture) Result {
	res, _ := r.resolve(m, target, func(cu *culture.Culture, name string) (*composite.Format, bool, error) {
		f, ok := r.cache.Lookup(cu, name)
		return f, ok, nil
	})
	return res
}

// lookupFunc finds the translated format for (culture, resourceName).
type lookupFunc func(cu *culture.Culture, name string) (*composite.Format, bool, error)

func (r *Resolver) resolve(m *Message, target *culture.Culture, lookup lookupFunc) (Result, error) {
	def := r.reg.Default()
	if target == nil || target.IsRoot() || target.Primary() == def.Primary() {
		return Result{Text: m.Text(), Achieved: def, Quality: QualityExact}, nil
	}

	chain := target.Chain()
	for _, cu := range chain {
		if cu == def.Primary() {
			// Reaching the code-default culture in the chain means the
			// original text is the requested one.
			return Result{Text: m.Text(), Achieved: def, Quality: QualityExact}, nil
		}
		f, ok, err := lookup(cu, m.ResourceName())
		if err != nil {
			return Result{Text: m.Text(), Quality: QualityNone, TranslationWelcome: true}, err
		}
		if !ok {
			continue
		}

		res := Result{
			Text:     f.Render(m.args...),
			Achieved: cu,
			Quality:  gradeQuality(chain, cu),
			Found:    f,
		}
		if f.ArgCount() != m.format.ArgCount() {
			res.ArgCountMismatch = true
			r.logger.Debug("argument count drift",
				slog.String("resource", m.ResourceName()),
				slog.String("culture", cu.Name()),
				slog.Int("expected", f.ArgCount()),
				slog.Int("actual", m.format.ArgCount()))
		}
		return res, nil
	}

	return Result{Text: m.Text(), Quality: QualityNone, TranslationWelcome: true}, nil
}

// gradeQuality grades a hit by its distance from the chain's primary
// culture: the exact culture is Perfect, a language-sharing ancestor Good,
// the next language group Bad, anything farther Awful.
func gradeQuality(chain []*culture.Culture, hit *culture.Culture) Quality {
	if hit == chain[0] {
		return QualityPerfect
	}
	group := 0
	lang := chain[0].Language()
	for _, cu := range chain {
		if cu.Language() != lang {
			group++
			lang = cu.Language()
		}
		if cu == hit {
			break
		}
	}
	switch group {
	case 0:
		return QualityGood
	case 1:
		return QualityBad
	default:
		return QualityAwful
	}
}
