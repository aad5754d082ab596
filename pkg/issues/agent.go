package issues

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/logger"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"
)

// State is the lifecycle of an Agent.
type State int32

const (
	// StateStopped: no consumer is running yet, or it has finished draining.
	StateStopped State = iota

	// StateRunning: the background consumer is draining the queue.
	StateRunning

	// StateDraining: Close was called; already-queued events, including
	// flush and report requests, are still honored.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	default:
		return "Unknown"
	}
}

// event is the closed set of work items the consumer loop dispatches on.
type event interface{ isEvent() }

type messageCreatedEvent struct{ msg *translation.Message }
type cultureCreatedEvent struct{ culture *culture.Culture }
type missingTranslationEvent struct {
	culture string
	msg     *translation.Message
	found   *composite.Format
}
type argMismatchEvent struct {
	culture string
	msg     *translation.Message
	found   *composite.Format
}
type clashEvent struct {
	name      string
	id        uint32
	conflicts []string
}
type faultEvent struct{ fault translation.Fault }
type flushEvent struct{ done chan struct{} }
type reportEvent struct{ reply chan *Report }

func (messageCreatedEvent) isEvent()     {}
func (cultureCreatedEvent) isEvent()     {}
func (missingTranslationEvent) isEvent() {}
func (argMismatchEvent) isEvent()        {}
func (clashEvent) isEvent()              {}
func (faultEvent) isEvent()              {}
func (flushEvent) isEvent()              {}
func (reportEvent) isEvent()             {}

// dedupeKey identifies one (target culture, resource name) defect.
type dedupeKey struct {
	culture  string
	resource string
}

// occurrence is one call site using a format under a resource name.
type occurrence struct {
	resource string
	file     string
	line     int
	auto     bool
}

// formatRecord tracks every place a format's content digest was seen.
type formatRecord struct {
	format      string // reconstructed source text
	occurrences []occurrence
}

// Agent deduplicates and reports globalization defects on one background
// consumer. Producers append to an unbounded FIFO queue and never block;
// the consumer processes events strictly in submission order, so its
// bookkeeping needs no locking at all.
type Agent struct {
	mu      sync.Mutex
	queue   []event
	notify  chan struct{}
	closed  bool
	running bool

	state       atomic.Int32
	diagnostics atomic.Bool
	done        chan struct{}
	logger      *slog.Logger
	subs        *subscriberSet

	// Consumer-owned state. Only the run goroutine touches these; after
	// done is closed they are frozen and safe to read.
	seenMissing  map[dedupeKey]struct{}
	seenMismatch map[dedupeKey]struct{}
	missing      []Issue
	mismatches   []Issue
	records      map[[32]byte]*formatRecord

	// Identifier clashes are read without going through the queue, so the
	// consumer publishes them by copy-then-swap.
	clashes atomic.Pointer[[]Issue]
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithAgentLogger sets the logger issues are reported through. Defaults to a
// discard logger.
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDiagnostics sets the initial state of the diagnostics gate. When the
// gate is off, only identifier clashes are recorded. Default on.
func WithDiagnostics(enabled bool) AgentOption {
	return func(a *Agent) {
		a.diagnostics.Store(enabled)
	}
}

// WithSubscriberBuffer sets the per-subscriber channel buffer. Default 64.
func WithSubscriberBuffer(n int) AgentOption {
	return func(a *Agent) {
		a.subs = newSubscriberSet(n)
	}
}

// NewAgent creates a stopped agent. The consumer goroutine starts lazily on
// the first posted event.
func NewAgent(opts ...AgentOption) *Agent {
	a := &Agent{
		notify:       make(chan struct{}, 1),
		done:         make(chan struct{}),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		subs:         newSubscriberSet(64),
		seenMissing:  make(map[dedupeKey]struct{}),
		seenMismatch: make(map[dedupeKey]struct{}),
		records:      make(map[[32]byte]*formatRecord),
	}
	a.diagnostics.Store(true)
	empty := make([]Issue, 0)
	a.clashes.Store(&empty)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current lifecycle state.
func (a *Agent) State() State { return State(a.state.Load()) }

// SetDiagnostics toggles the diagnostics gate. Identifier clashes ignore it.
func (a *Agent) SetDiagnostics(enabled bool) { a.diagnostics.Store(enabled) }

// Diagnostics reports whether the diagnostics gate is on.
func (a *Agent) Diagnostics() bool { return a.diagnostics.Load() }

// post appends ev to the queue without ever blocking on the consumer. It
// starts the consumer on first use and reports false once the agent closed.
func (a *Agent) post(ev event) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}
	a.queue = append(a.queue, ev)
	if !a.running {
		a.running = true
		a.state.Store(int32(StateRunning))
		go a.run()
	}
	a.mu.Unlock()

	select {
	case a.notify <- struct{}{}:
	default:
	}
	return true
}

// MessageCreated records a message creation for occurrence bookkeeping.
func (a *Agent) MessageCreated(m *translation.Message) {
	if m == nil {
		return
	}
	a.post(messageCreatedEvent{msg: m})
}

// CultureCreated records a culture creation.
func (a *Agent) CultureCreated(c *culture.Culture) {
	if c == nil {
		return
	}
	a.post(cultureCreatedEvent{culture: c})
}

// MissingTranslation reports that m found no translation for the target
// culture. found, when non-nil, is a lower-quality format that did resolve;
// the agent derives an argument-count check from it. Only the first report
// per (culture, resource name) is published.
func (a *Agent) MissingTranslation(targetCulture string, m *translation.Message, found *composite.Format) {
	if m == nil {
		return
	}
	a.post(missingTranslationEvent{culture: targetCulture, msg: m, found: found})
}

// ArgumentCountMismatch reports that found expects a different argument
// count than m carries. Only the first report per (culture, resource name)
// is published.
func (a *Agent) ArgumentCountMismatch(targetCulture string, m *translation.Message, found *composite.Format) {
	if m == nil || found == nil {
		return
	}
	a.post(argMismatchEvent{culture: targetCulture, msg: m, found: found})
}

// IdentifierClash reports a culture id collision. It is recorded and
// published unconditionally, bypassing the diagnostics gate.
func (a *Agent) IdentifierClash(name string, id uint32, conflicts []string) {
	a.post(clashEvent{name: name, id: id, conflicts: conflicts})
}

// Forward relays defects detected by a translation-cache replacement.
func (a *Agent) Forward(faults ...translation.Fault) {
	for _, fault := range faults {
		a.post(faultEvent{fault: fault})
	}
}

// Flush blocks until every event posted before it has been processed. On a
// closed agent the queue is already drained, so it returns immediately.
func (a *Agent) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !a.post(flushEvent{done: done}) {
		<-a.done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Report builds the current issue report. The computation happens inside the
// queue, in submission order, so it reflects exactly the events posted
// before the call and races with none posted after.
func (a *Agent) Report(ctx context.Context) (*Report, error) {
	reply := make(chan *Report, 1)
	if !a.post(reportEvent{reply: reply}) {
		// Closed and drained: the consumer state is frozen.
		<-a.done
		return a.buildReport(), nil
	}
	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IdentifierClashes returns the ever-growing clash list. Lock-free; the
// slice is immutable once returned.
func (a *Agent) IdentifierClashes() []Issue {
	return *a.clashes.Load()
}

// Subscribe registers a subscriber for finalized issues. The subscription
// ends when ctx is cancelled, the subscriber is closed, or the agent shuts
// down, whichever comes first.
func (a *Agent) Subscribe(ctx context.Context) *Subscriber {
	return a.subs.subscribe(ctx)
}

// Close stops accepting events and shuts the consumer down after it drained
// the queue, honoring outstanding flush and report requests. It is
// idempotent and safe to call concurrently.
func (a *Agent) Close() error {
	a.mu.Lock()
	if a.closed {
		wasRunning := a.running
		a.mu.Unlock()
		if wasRunning {
			<-a.done
		}
		return nil
	}
	a.closed = true
	wasRunning := a.running
	a.mu.Unlock()

	if wasRunning {
		a.state.Store(int32(StateDraining))
		select {
		case a.notify <- struct{}{}:
		default:
		}
		<-a.done
	} else {
		close(a.done)
	}
	a.state.Store(int32(StateStopped))

	a.subs.close()
	return nil
}

// run is the single consumer loop.
func (a *Agent) run() {
	defer close(a.done)
	for {
		a.mu.Lock()
		batch := a.queue
		a.queue = nil
		closed := a.closed
		a.mu.Unlock()

		if len(batch) == 0 {
			if closed {
				return
			}
			<-a.notify
			continue
		}
		for _, ev := range batch {
			a.process(ev)
		}
	}
}

func (a *Agent) process(ev event) {
	switch e := ev.(type) {
	case flushEvent:
		// Everything posted before the token has been processed by now.
		close(e.done)
	case reportEvent:
		e.reply <- a.buildReport()
	case clashEvent:
		a.processClash(e)
	case messageCreatedEvent:
		if a.diagnostics.Load() {
			a.processMessageCreated(e.msg)
		}
	case cultureCreatedEvent:
		if a.diagnostics.Load() {
			a.logger.Debug("culture created",
				logger.Culture(e.culture.Name()),
				logger.CultureID(e.culture.ID()))
		}
	case missingTranslationEvent:
		if a.diagnostics.Load() {
			a.processMissing(e)
		}
	case argMismatchEvent:
		if a.diagnostics.Load() {
			a.processMismatch(e.culture, e.msg, e.found)
		}
	case faultEvent:
		if a.diagnostics.Load() {
			a.processFault(e.fault)
		}
	}
}

func (a *Agent) processClash(e clashEvent) {
	issue := a.finalize(Issue{
		Kind:      KindIdentifierClash,
		Culture:   e.name,
		CultureID: e.id,
		Conflicts: e.conflicts,
	})

	current := *a.clashes.Load()
	next := make([]Issue, len(current)+1)
	copy(next, current)
	next[len(current)] = issue
	a.clashes.Store(&next)

	a.publish(issue, slog.LevelWarn)
}

func (a *Agent) processMessageCreated(m *translation.Message) {
	text := m.Format().Reconstruct()
	digest := translation.Digest(text)

	rec, ok := a.records[digest]
	if !ok {
		rec = &formatRecord{format: text}
		a.records[digest] = rec
	}

	occ := occurrence{resource: m.ResourceName(), auto: m.AutoNamed()}
	if loc, found := m.Location(); found {
		occ.file = loc.File
		occ.line = loc.Line
	}
	for _, existing := range rec.occurrences {
		if existing == occ {
			return
		}
	}
	rec.occurrences = append(rec.occurrences, occ)
}

func (a *Agent) processMissing(e missingTranslationEvent) {
	key := dedupeKey{culture: e.culture, resource: e.msg.ResourceName()}
	if _, seen := a.seenMissing[key]; !seen {
		a.seenMissing[key] = struct{}{}
		issue := a.finalize(Issue{
			Kind:     KindMissingTranslation,
			Culture:  e.culture,
			Resource: e.msg.ResourceName(),
			Format:   e.msg.Format().Reconstruct(),
		})
		a.missing = append(a.missing, issue)
		a.publish(issue, slog.LevelInfo)
	}

	// A lower-quality hit travelling with the miss may reveal drift.
	if e.found != nil && e.found.ArgCount() != e.msg.Format().ArgCount() {
		a.processMismatch(e.culture, e.msg, e.found)
	}
}

func (a *Agent) processMismatch(cultureName string, m *translation.Message, found *composite.Format) {
	key := dedupeKey{culture: cultureName, resource: m.ResourceName()}
	if _, seen := a.seenMismatch[key]; seen {
		return
	}
	a.seenMismatch[key] = struct{}{}

	issue := a.finalize(Issue{
		Kind:     KindArgumentCountMismatch,
		Culture:  cultureName,
		Resource: m.ResourceName(),
		Format:   found.Reconstruct(),
		Expected: found.ArgCount(),
		Actual:   m.Format().ArgCount(),
	})
	a.mismatches = append(a.mismatches, issue)
	a.publish(issue, slog.LevelWarn)
}

func (a *Agent) processFault(fault translation.Fault) {
	kind := KindDuplicateResource
	if fault.Kind == translation.FaultParseError {
		kind = KindFormatParseError
	}
	issue := a.finalize(Issue{
		Kind:     kind,
		Culture:  fault.Culture,
		Resource: fault.Resource,
		Format:   fault.Format,
		Err:      fault.Err,
	})
	a.publish(issue, slog.LevelWarn)
}

func (a *Agent) finalize(issue Issue) Issue {
	issue.ID = uuid.New()
	issue.Occurred = time.Now()
	return issue
}

func (a *Agent) publish(issue Issue, level slog.Level) {
	a.logger.Log(context.Background(), level, issue.String(),
		slog.String("kind", issue.Kind.String()),
		logger.Culture(issue.Culture),
		logger.Resource(issue.Resource),
		logger.Error(issue.Err))
	a.subs.publish(issue)
}
