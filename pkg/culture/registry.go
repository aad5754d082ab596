package culture

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/language"
)

// ClashFunc is notified when two different names hash to the same id and the
// registry had to probe to a free one. Conflicts holds the names already
// occupying the probed ids. The callback runs outside the registry lock and
// regardless of any diagnostics configuration: a silent collision would break
// cross-system id sharing.
type ClashFunc func(name string, id uint32, conflicts []string)

// CreateFunc is notified once for every culture the registry creates.
type CreateFunc func(c *Culture)

// Registry owns the process-lifetime culture graph. Lookups are served under
// a read lock from an append-only map; creation of a brand-new node is
// serialized by a short critical section so equal names can never produce
// duplicate nodes. Cultures are never evicted.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]*Culture
	byID     map[uint32]*Culture
	root     *Culture
	def      *Culture
	hash     func(string) uint32
	onClash  ClashFunc
	onCreate CreateFunc
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClashFunc sets the id-collision callback.
func WithClashFunc(fn ClashFunc) RegistryOption {
	return func(r *Registry) { r.onClash = fn }
}

// WithCreateFunc sets the culture-creation callback.
func WithCreateFunc(fn CreateFunc) RegistryOption {
	return func(r *Registry) { r.onCreate = fn }
}

// WithIDHash replaces the id hash function. Useful in tests to force
// collisions deterministically.
func WithIDHash(fn func(name string) uint32) RegistryOption {
	return func(r *Registry) { r.hash = fn }
}

// WithRegistryLogger sets the logger used for debug output. Defaults to a
// discard logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry whose code-default culture is defaultName,
// typically "en". The default culture is the language source code is written
// in; SetTranslations rejects it and translation-mode canonicalization drops
// it from fallback chains.
func NewRegistry(defaultName string, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Culture),
		byID:   make(map[uint32]*Culture),
		hash: func(name string) uint32 {
			return uint32(xxhash.Sum64String(name))
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	// Id 0 is reserved for the unnamed root culture.
	r.root = &Culture{tag: language.Und}
	r.byName[""] = r.root
	r.byID[0] = r.root

	def, err := r.GetOrCreate(defaultName)
	if err != nil {
		return nil, err
	}
	if def.IsRoot() {
		return nil, ErrEmptyName
	}
	r.def = def

	return r, nil
}

// Root returns the unnamed root culture.
func (r *Registry) Root() *Culture { return r.root }

// Default returns the code-default culture the registry was created with.
func (r *Registry) Default() *Culture { return r.def }

// GetOrCreate resolves a culture by name, creating it and its ancestors on
// first use. Names are normalized to lowercase, so case-different equal names
// are idempotent. The empty name resolves to the root culture. A name
// containing commas is treated as a preference list and canonicalized in
// selection mode.
func (r *Registry) GetOrCreate(name string) (*Culture, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	if norm == "" {
		return r.root, nil
	}
	if strings.ContainsRune(norm, ',') {
		return r.Canonicalize(norm, ModeSelection)
	}

	r.mu.RLock()
	c, ok := r.byName[norm]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	var pending callbacks
	r.mu.Lock()
	c, err := r.createLocked(norm, &pending)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	pending.fire(r)

	return c, nil
}

// Cultures returns all registered cultures except the root, in unspecified
// order. The returned slice is a copy and safe to retain.
func (r *Registry) Cultures() []*Culture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Culture, 0, len(r.byName)-1)
	for _, c := range r.byName {
		if !c.IsRoot() {
			out = append(out, c)
		}
	}
	return out
}

// callbacks collects clash and creation notifications raised while the
// registry lock is held, so they can fire after it is released.
type callbacks struct {
	created []*Culture
	clashes []clash
}

type clash struct {
	name      string
	id        uint32
	conflicts []string
}

func (p *callbacks) fire(r *Registry) {
	for _, c := range p.created {
		r.logger.Debug("culture created", slog.String("culture", c.Name()), slog.Uint64("id", uint64(c.ID())))
		if r.onCreate != nil {
			r.onCreate(c)
		}
	}
	for _, cl := range p.clashes {
		r.logger.Warn("culture id clash",
			slog.String("culture", cl.name),
			slog.Uint64("id", uint64(cl.id)),
			slog.Any("conflicts", cl.conflicts))
		if r.onClash != nil {
			r.onClash(cl.name, cl.id, cl.conflicts)
		}
	}
}

// createLocked creates norm and any missing ancestors. Caller holds r.mu.
func (r *Registry) createLocked(norm string, pending *callbacks) (*Culture, error) {
	if c, ok := r.byName[norm]; ok {
		return c, nil
	}
	if err := validateName(norm); err != nil {
		return nil, err
	}

	parent, err := func() (*Culture, error) {
		p := parentName(norm)
		if p == "" {
			return r.root, nil
		}
		return r.createLocked(p, pending)
	}()
	if err != nil {
		return nil, err
	}

	// Best effort: unknown but well-formed names keep an undefined tag.
	tag, tagErr := language.Parse(norm)
	if tagErr != nil {
		tag = language.Und
	}

	c := &Culture{
		name:   norm,
		parent: parent,
		tag:    tag,
	}
	c.chain = append([]*Culture{c}, parent.chain...)
	c.id = r.assignIDLocked(norm, pending)

	r.byName[norm] = c
	r.byID[c.id] = c
	pending.created = append(pending.created, c)

	return c, nil
}

// assignIDLocked derives the 32-bit id from the name hash and, on collision
// with a different name, probes deterministically upward to a free id.
// Caller holds r.mu.
func (r *Registry) assignIDLocked(norm string, pending *callbacks) uint32 {
	id := r.hash(norm)
	var conflicts []string
	for {
		if id == 0 {
			// Reserved for the root culture.
			id = 1
			continue
		}
		existing, taken := r.byID[id]
		if !taken {
			break
		}
		conflicts = append(conflicts, existing.name)
		id++
	}
	if len(conflicts) > 0 {
		pending.clashes = append(pending.clashes, clash{name: norm, id: id, conflicts: conflicts})
	}
	return id
}

// validateName checks BCP-47 style syntax: '-'-separated subtags of one to
// eight ASCII letters or digits, the first being two to eight letters.
func validateName(name string) error {
	subtags := strings.Split(name, "-")
	for i, tag := range subtags {
		if len(tag) == 0 || len(tag) > 8 {
			return &ErrInvalidName{Name: name}
		}
		for j := 0; j < len(tag); j++ {
			c := tag[j]
			switch {
			case c >= 'a' && c <= 'z':
			case c >= '0' && c <= '9':
				if i == 0 {
					return &ErrInvalidName{Name: name}
				}
			default:
				return &ErrInvalidName{Name: name}
			}
		}
	}
	if len(subtags[0]) < 2 {
		return &ErrInvalidName{Name: name}
	}
	return nil
}
