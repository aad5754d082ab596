package culture

import (
	"strings"

	"golang.org/x/text/language"
)

// Culture is an immutable node of the culture graph. Instances are created
// and owned by a Registry; two lookups of equal names return the same pointer.
type Culture struct {
	name     string
	id       uint32
	parent   *Culture
	chain    []*Culture
	tag      language.Tag
	pure     bool
}

// Name returns the normalized lowercase name. The root culture has the empty
// name; a pure culture's name is its comma-joined canonical fallback list.
func (c *Culture) Name() string { return c.name }

// ID returns the process-stable 32-bit identifier assigned by the registry.
func (c *Culture) ID() uint32 { return c.id }

// Parent returns the intrinsic fallback parent, or nil for the root culture
// and for pure cultures, which have an explicit fallback list instead.
func (c *Culture) Parent() *Culture { return c.parent }

// IsRoot reports whether this is the unnamed root culture.
func (c *Culture) IsRoot() bool { return c.name == "" }

// IsPure reports whether this culture is identified only by an explicit
// ordered fallback list rather than a single name's parent chain.
func (c *Culture) IsPure() bool { return c.pure }

// Tag returns the BCP-47 tag of the primary culture. The root culture
// returns language.Und.
func (c *Culture) Tag() language.Tag { return c.Primary().tag }

// Primary returns the culture resolution starts from: the culture itself, or
// the first entry of a pure culture's fallback list.
func (c *Culture) Primary() *Culture {
	if c.pure && len(c.chain) > 0 {
		return c.chain[0]
	}
	return c
}

// Chain returns the full resolution order, starting with the primary culture
// and ending with the most general fallback. The root culture is never part
// of a chain. The returned slice is a copy and safe to retain.
func (c *Culture) Chain() []*Culture {
	out := make([]*Culture, len(c.chain))
	copy(out, c.chain)
	return out
}

// Language returns the primary culture's language subtag, e.g. "fr" for
// "fr-ch". The root culture returns the empty string.
func (c *Culture) Language() string {
	name := c.Primary().name
	if i := strings.IndexByte(name, '-'); i >= 0 {
		return name[:i]
	}
	return name
}

func (c *Culture) String() string { return c.name }

// sameLanguage reports whether both cultures descend from the same language
// subtag.
func sameLanguage(a, b *Culture) bool {
	return a.Language() == b.Language() && !a.IsRoot() && !b.IsRoot()
}

// parentName strips the last '-'-delimited subtag; "fr-ch" becomes "fr" and
// "fr" becomes the empty root name.
func parentName(name string) string {
	if i := strings.LastIndexByte(name, '-'); i >= 0 {
		return name[:i]
	}
	return ""
}

// depth counts the subtags of a name; the root has depth zero.
func depth(name string) int {
	if name == "" {
		return 0
	}
	return strings.Count(name, "-") + 1
}
