package translation

import (
	"sync"
	"sync/atomic"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
)

// Resource is one (resourceName, format-string) pair of a translation table.
type Resource struct {
	Name   string
	Format string
}

// FaultKind discriminates the defects SetTranslations can detect.
type FaultKind int

const (
	// FaultDuplicateResource marks a resource name appearing more than once
	// in a batch; the first occurrence wins.
	FaultDuplicateResource FaultKind = iota

	// FaultParseError marks a resource whose format failed to parse.
	FaultParseError
)

func (k FaultKind) String() string {
	switch k {
	case FaultDuplicateResource:
		return "DuplicateResource"
	case FaultParseError:
		return "FormatParseError"
	default:
		return "Unknown"
	}
}

// Fault describes one defect found while replacing a culture's translations.
// Faults are returned to the caller rather than failing the replacement;
// callers typically forward them to the issue agent.
type Fault struct {
	Kind     FaultKind
	Culture  string
	Resource string
	Format   string
	Err      error
}

// resourceMaps associates a culture id with its resource-name to format map.
// The whole value is immutable once published.
type resourceMaps map[uint32]map[string]*composite.Format

// Cache holds per-culture translation tables. Lookups are lock-free: the
// current table set is reached through one atomic pointer, and every update
// publishes a fresh copy, so a reader either sees a culture's previous map or
// its complete replacement, never a mix.
type Cache struct {
	reg  *culture.Registry
	maps atomic.Pointer[resourceMaps]
	mu   sync.Mutex // serializes writers
}

// NewCache creates an empty cache bound to reg, whose root and code-default
// cultures are rejected as translation targets.
func NewCache(reg *culture.Registry) *Cache {
	c := &Cache{reg: reg}
	empty := make(resourceMaps)
	c.maps.Store(&empty)
	return c
}

// SetTranslations replaces cu's whole resource map in one atomic swap.
// Within the batch the first occurrence of a duplicate name wins; later ones
// and unparseable formats are reported as Faults without failing the call.
// Setting translations for the root, the code-default, or a pure culture is
// a programming error.
func (c *Cache) SetTranslations(cu *culture.Culture, resources []Resource) ([]Fault, error) {
	switch {
	case cu == nil:
		return nil, ErrNilCulture
	case cu.IsRoot():
		return nil, ErrRootCulture
	case cu == c.reg.Default():
		return nil, ErrDefaultCulture
	case cu.IsPure():
		return nil, ErrPureCulture
	}

	var faults []Fault
	entries := make(map[string]*composite.Format, len(resources))
	for _, res := range resources {
		if _, dup := entries[res.Name]; dup {
			faults = append(faults, Fault{
				Kind:     FaultDuplicateResource,
				Culture:  cu.Name(),
				Resource: res.Name,
				Format:   res.Format,
			})
			continue
		}
		f, err := composite.Parse(res.Format)
		if err != nil {
			faults = append(faults, Fault{
				Kind:     FaultParseError,
				Culture:  cu.Name(),
				Resource: res.Name,
				Format:   res.Format,
				Err:      err,
			})
			continue
		}
		entries[res.Name] = f
	}

	c.mu.Lock()
	current := *c.maps.Load()
	next := make(resourceMaps, len(current)+1)
	for id, m := range current {
		next[id] = m
	}
	next[cu.ID()] = entries
	c.maps.Store(&next)
	c.mu.Unlock()

	return faults, nil
}

// Lookup returns the translated format registered for (cu, resourceName).
func (c *Cache) Lookup(cu *culture.Culture, resourceName string) (*composite.Format, bool) {
	m, ok := (*c.maps.Load())[cu.ID()]
	if !ok {
		return nil, false
	}
	f, ok := m[resourceName]
	return f, ok
}

// Len returns the number of entries registered for cu.
func (c *Cache) Len(cu *culture.Culture) int {
	return len((*c.maps.Load())[cu.ID()])
}
