// Package issues collects and reports globalization defects without ever
// blocking the code that detects them.
//
// The Agent owns an unbounded FIFO queue drained by a single background
// consumer. Because exactly one goroutine touches the bookkeeping state, the
// consumer needs no locks, and because producers only append to the queue,
// posting an event never waits for processing. Events are handled strictly
// in submission order, which is what makes the flush barrier and the
// "first occurrence wins" deduplication meaningful.
//
// Missing translations and argument-count mismatches are published once per
// (culture, resource name) pair; identifier clashes are never suppressed and
// bypass the diagnostics gate entirely, since a silent id collision breaks
// cross-system id sharing. Finalized issues go out through a subscription
// surface that drops for slow consumers rather than stalling the loop.
//
// Reports are computed inside the queue, so a report request observes every
// event posted before it and races with none posted after. Shutdown drains
// the queue first: outstanding flush and report requests are honored before
// the loop stops, so no caller hangs.
package issues
