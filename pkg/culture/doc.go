// Package culture models cultures and their fallback chains.
//
// A Culture is identified by a normalized lowercase BCP-47 style name such as
// "fr" or "fr-ch". Stripping the last subtag repeatedly yields the intrinsic
// fallback chain, ending at the unnamed root culture. Cultures are created on
// first lookup through a Registry, cached for the lifetime of the process and
// never evicted, so pointer equality is a valid identity check within one
// Registry.
//
// Every culture carries a 32-bit id derived from a hash of its normalized
// name. Ids are meant to be shared across systems; when two different names
// collide the registry deterministically probes to a free id and reports the
// clash through its clash callback, unconditionally, because a silent
// collision would corrupt cross-system id exchange.
//
// The registry also canonicalizes ordered preference lists such as
// "fr,fr-ch,es,fr-ca": entries are grouped by language, ordered
// specific-to-general with missing ancestors appended, and the groups keep
// the order of their first appearance. The result is a pure culture whose
// name is the comma-joined canonical list. Two canonicalization modes exist:
// ModeTranslation drops the code-default language and its ancestors from the
// chain, ModeSelection keeps them.
package culture
