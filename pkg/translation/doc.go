// Package translation captures messages in a fixed source language and
// re-envelopes their text with translated composite formats later, without
// re-running the application logic that produced them.
//
// A Message owns the parsed composite format, the content culture whose rules
// rendered its placeholder values, the rendered text, and a resource name
// that is either explicit or derived from a content hash of the format, so
// identical format text always maps to the identical auto name.
//
// The Cache holds one resource-name to format map per culture and replaces a
// culture's whole map through a single atomic pointer swap: readers are
// lock-free and never observe a partially applied update. Defects found while
// replacing a map (bad formats, in-batch duplicate names) are returned to the
// caller as Faults rather than failing the call.
//
// The Resolver walks a target culture's fallback chain against the cache and
// grades how close the supplying culture is to the requested one. Resolution
// never fails: without a translation the original text is returned and the
// message is flagged translation-welcome. AsyncResolver adds a repository
// consulted on cache misses, with concurrent lookups for the same entry
// collapsed through singleflight.
package translation
