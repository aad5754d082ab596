package globalization

import (
	"context"
	"io"
	"log/slog"

	xmessage "golang.org/x/text/message"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/issues"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"
)

// Hub assembles the culture registry, the translation cache and resolvers,
// and the issue agent into one ready-to-use facade. A zero-configuration
// hub uses "en" as its code-default culture and keeps diagnostics on.
//
// All methods are safe for concurrent use.
type Hub struct {
	reg    *culture.Registry
	cache  *translation.Cache
	res    *translation.Resolver
	async  *translation.AsyncResolver
	agent  *issues.Agent
	logger *slog.Logger

	defaultName string
	diagnostics bool
	issueBuffer int
	repo        translation.Repository
}

// Option configures a Hub.
type Option func(*Hub)

// WithDefaultCulture sets the code-default culture name, the language the
// calling source code is written in. Defaults to "en".
func WithDefaultCulture(name string) Option {
	return func(h *Hub) {
		if name != "" {
			h.defaultName = name
		}
	}
}

// WithLogger sets the logger shared by every component. Defaults to a
// discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithDiagnostics sets the initial state of the issue agent's diagnostics
// gate. Default on.
func WithDiagnostics(enabled bool) Option {
	return func(h *Hub) { h.diagnostics = enabled }
}

// WithRepository attaches an external translation source consulted on cache
// misses by TranslateContext.
func WithRepository(repo translation.Repository) Option {
	return func(h *Hub) { h.repo = repo }
}

// WithIssueBuffer sets the per-subscriber issue channel buffer. Default 64.
func WithIssueBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.issueBuffer = n
		}
	}
}

// NewHub creates a hub. Culture creations and identifier clashes flow from
// the registry into the issue agent from the first moment, so no event is
// ever missed.
func NewHub(opts ...Option) (*Hub, error) {
	h := &Hub{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultName: "en",
		diagnostics: true,
		issueBuffer: 64,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.agent = issues.NewAgent(
		issues.WithAgentLogger(h.logger),
		issues.WithDiagnostics(h.diagnostics),
		issues.WithSubscriberBuffer(h.issueBuffer),
	)

	reg, err := culture.NewRegistry(h.defaultName,
		culture.WithRegistryLogger(h.logger),
		culture.WithCreateFunc(h.agent.CultureCreated),
		culture.WithClashFunc(h.agent.IdentifierClash),
	)
	if err != nil {
		_ = h.agent.Close()
		return nil, err
	}
	h.reg = reg

	h.cache = translation.NewCache(reg)
	h.res = translation.NewResolver(reg, h.cache, translation.WithResolverLogger(h.logger))
	if h.repo != nil {
		h.async = translation.NewAsyncResolver(h.res, h.repo, translation.WithAsyncResolverLogger(h.logger))
	}

	return h, nil
}

// Registry exposes the culture registry.
func (h *Hub) Registry() *culture.Registry { return h.reg }

// Agent exposes the issue agent.
func (h *Hub) Agent() *issues.Agent { return h.agent }

// Culture resolves a culture name or comma-separated preference list,
// creating cultures on first use.
func (h *Hub) Culture(name string) (*culture.Culture, error) {
	return h.reg.GetOrCreate(name)
}

// NewMessage creates a translatable message whose content is written in
// the given culture. Arguments are captured immediately, formatted with the
// content culture's number and value conventions. The call site is recorded
// for duplicate-format reporting, and the agent is notified.
func (h *Hub) NewMessage(content *culture.Culture, format string, args ...any) (*translation.Message, error) {
	if content == nil {
		content = h.reg.Default()
	}

	var rendered []string
	if len(args) > 0 {
		printer := xmessage.NewPrinter(content.Tag())
		rendered = make([]string, len(args))
		for i, arg := range args {
			rendered[i] = printer.Sprint(arg)
		}
	}

	m, err := translation.NewMessage(content, format, rendered,
		translation.WithCallerLocation(1))
	if err != nil {
		return nil, err
	}
	h.agent.MessageCreated(m)
	return m, nil
}

// Translate resolves m against target's fallback chain using the in-memory
// cache only. It never fails: when no translation exists the message's own
// text comes back and a missing-translation issue is raised. Argument count
// drift between the message and the translated format raises an issue too.
func (h *Hub) Translate(m *translation.Message, target *culture.Culture) translation.Result {
	res := h.res.Resolve(m, target)
	h.raise(m, target, res)
	return res
}

// TranslateContext resolves m like Translate but, when a repository is
// attached, consults it on cache misses. Repository failures degrade to the
// message's own text; only ctx errors are returned.
func (h *Hub) TranslateContext(ctx context.Context, m *translation.Message, target *culture.Culture) (translation.Result, error) {
	if h.async == nil {
		return h.Translate(m, target), nil
	}
	res, err := h.async.Resolve(ctx, m, target)
	if err != nil {
		return res, err
	}
	h.raise(m, target, res)
	return res, nil
}

func (h *Hub) raise(m *translation.Message, target *culture.Culture, res translation.Result) {
	if target == nil {
		target = h.reg.Default()
	}
	if res.TranslationWelcome {
		h.agent.MissingTranslation(target.Name(), m, res.Found)
	} else if res.ArgCountMismatch {
		h.agent.ArgumentCountMismatch(target.Name(), m, res.Found)
	}
}

// SetTranslations replaces the whole translation set of cu. Per-resource
// defects (duplicates, unparseable formats) are forwarded to the issue agent
// and returned; they do not prevent the valid resources from landing.
func (h *Hub) SetTranslations(cu *culture.Culture, resources []translation.Resource) ([]translation.Fault, error) {
	faults, err := h.cache.SetTranslations(cu, resources)
	if err != nil {
		return nil, err
	}
	h.agent.Forward(faults...)
	return faults, nil
}

// LoadYAML parses a YAML resource-name to format mapping and installs it as
// cu's translation set.
func (h *Hub) LoadYAML(cu *culture.Culture, data []byte) ([]translation.Fault, error) {
	resources, err := translation.ParseYAMLResources(data)
	if err != nil {
		return nil, err
	}
	return h.SetTranslations(cu, resources)
}

// LoadJSON parses a JSON resource-name to format mapping and installs it as
// cu's translation set.
func (h *Hub) LoadJSON(cu *culture.Culture, data []byte) ([]translation.Fault, error) {
	resources, err := translation.ParseJSONResources(data)
	if err != nil {
		return nil, err
	}
	return h.SetTranslations(cu, resources)
}

// Flush blocks until every issue event raised before the call is processed.
func (h *Hub) Flush(ctx context.Context) error {
	return h.agent.Flush(ctx)
}

// Report builds the current issue report.
func (h *Hub) Report(ctx context.Context) (*issues.Report, error) {
	return h.agent.Report(ctx)
}

// Subscribe registers a live issue subscriber bound to ctx.
func (h *Hub) Subscribe(ctx context.Context) *issues.Subscriber {
	return h.agent.Subscribe(ctx)
}

// IdentifierClashes returns every culture id collision recorded so far.
func (h *Hub) IdentifierClashes() []issues.Issue {
	return h.agent.IdentifierClashes()
}

// Close drains and stops the issue agent. The registry and caches stay
// usable; only issue tracking ends.
func (h *Hub) Close() error {
	return h.agent.Close()
}
