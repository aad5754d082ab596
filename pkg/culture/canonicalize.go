package culture

import (
	"sort"
	"strings"
)

// Mode selects how canonicalization treats the code-default language.
type Mode int

const (
	// ModeSelection keeps the code-default language and its ancestors in the
	// canonical chain; appropriate when the chain picks resources.
	ModeSelection Mode = iota

	// ModeTranslation drops the code-default language and its ancestors:
	// messages are authored in the default language, so falling back to it is
	// the same as not translating at all.
	ModeTranslation
)

// Canonicalize resolves an ordered, comma-separated, possibly duplicated or
// misordered preference list into a culture carrying the canonical fallback
// chain:
//
//   - entries are grouped by language, groups ordered by the first appearance
//     of the language or one of its descendants;
//   - within a group, children come before parents, ancestors being appended
//     when not explicitly listed;
//   - in ModeTranslation the code-default language and its ancestors are
//     dropped from the result.
//
// For example "fr,fr-ch,es,fr-ca" canonicalizes to "fr-ch,fr-ca,fr,es". When
// the canonical list is a single culture's own chain, that culture is
// returned; otherwise the result is a pure culture named by the comma-joined
// list. An empty result, e.g. canonicalizing the default language alone in
// ModeTranslation, yields the code-default culture.
func (r *Registry) Canonicalize(prefs string, mode Mode) (*Culture, error) {
	var entries []*Culture
	for _, part := range strings.Split(prefs, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		c, err := r.GetOrCreate(part)
		if err != nil {
			return nil, err
		}
		if c.IsRoot() {
			continue
		}
		entries = append(entries, c)
	}
	if len(entries) == 0 {
		return r.def, nil
	}

	chain := r.canonicalChain(entries, mode)
	if len(chain) == 0 {
		return r.def, nil
	}

	// A list that collapses to a single culture's own chain needs no pure node.
	if isOwnChain(chain) {
		return chain[0], nil
	}

	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.name
	}
	joined := strings.Join(names, ",")

	r.mu.RLock()
	c, ok := r.byName[joined]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	var pending callbacks
	r.mu.Lock()
	c, ok = r.byName[joined]
	if !ok {
		c = &Culture{
			name:  joined,
			chain: chain,
			tag:   chain[0].tag,
			pure:  true,
		}
		c.id = r.assignIDLocked(joined, &pending)
		r.byName[joined] = c
		r.byID[c.id] = c
		pending.created = append(pending.created, c)
	}
	r.mu.Unlock()
	pending.fire(r)

	return c, nil
}

// isOwnChain reports whether chain is exactly the first element's own
// intrinsic fallback chain.
func isOwnChain(chain []*Culture) bool {
	own := chain[0].chain
	if len(chain) != len(own) {
		return false
	}
	for i := range chain {
		if chain[i] != own[i] {
			return false
		}
	}
	return true
}

// canonicalChain orders the entries and their ancestors per the rules
// documented on Canonicalize.
func (r *Registry) canonicalChain(entries []*Culture, mode Mode) []*Culture {
	var (
		groupOrder []string
		members    = make(map[string]map[*Culture]int)
	)
	for pos, entry := range entries {
		lang := entry.Language()
		group, ok := members[lang]
		if !ok {
			group = make(map[*Culture]int)
			members[lang] = group
			groupOrder = append(groupOrder, lang)
		}
		// The entry and every ancestor joins the group; the first position at
		// which a culture or one of its descendants appeared breaks depth ties.
		for n := entry.Primary(); !n.IsRoot(); n = n.parent {
			if _, seen := group[n]; !seen {
				group[n] = pos
			}
		}
	}

	dropped := make(map[*Culture]struct{})
	if mode == ModeTranslation {
		for n := r.def.Primary(); !n.IsRoot(); n = n.parent {
			dropped[n] = struct{}{}
		}
	}

	var chain []*Culture
	for _, lang := range groupOrder {
		group := members[lang]
		ordered := make([]*Culture, 0, len(group))
		for c := range group {
			if _, skip := dropped[c]; skip {
				continue
			}
			ordered = append(ordered, c)
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			di, dj := depth(ordered[i].name), depth(ordered[j].name)
			if di != dj {
				return di > dj
			}
			return group[ordered[i]] < group[ordered[j]]
		})
		chain = append(chain, ordered...)
	}

	return chain
}
