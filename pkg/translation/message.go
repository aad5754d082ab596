package translation

import (
	"encoding/base64"
	"runtime"

	"golang.org/x/crypto/blake2b"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/composite"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/culture"
)

// autoNamePrefix marks resource names derived from format content.
const autoNamePrefix = "sha-"

// Digest returns a fixed-size collision-resistant digest of text. It is used
// for auto resource naming and format occurrence bookkeeping; it is not
// security sensitive.
func Digest(text string) [32]byte {
	return blake2b.Sum256([]byte(text))
}

// AutoResourceName derives the stable resource name for a format's source
// text. Identical format text always yields the identical name.
func AutoResourceName(formatText string) string {
	sum := Digest(formatText)
	return autoNamePrefix + base64.RawURLEncoding.EncodeToString(sum[:15])
}

// IsAutoResourceName reports whether name was derived by AutoResourceName
// rather than supplied explicitly.
func IsAutoResourceName(name string) bool {
	return len(name) > len(autoNamePrefix) && name[:len(autoNamePrefix)] == autoNamePrefix
}

// SourceLocation points at the call site that created a message.
type SourceLocation struct {
	File string
	Line int
}

// Message is a captured user-facing message: an immutable composite format,
// the content culture whose rules rendered the placeholder values, the
// rendered text, and the resource name used to look up translations.
type Message struct {
	format  *composite.Format
	culture *culture.Culture
	args    []string
	text    string
	resName string
	loc     SourceLocation
}

// MessageOption configures a Message at creation time.
type MessageOption func(*Message)

// WithResourceName sets an explicit resource name instead of the
// content-hash-derived one.
func WithResourceName(name string) MessageOption {
	return func(m *Message) {
		if name != "" {
			m.resName = name
		}
	}
}

// WithSourceLocation records where the message was created.
func WithSourceLocation(file string, line int) MessageOption {
	return func(m *Message) {
		m.loc = SourceLocation{File: file, Line: line}
	}
}

// WithCallerLocation records the caller's file and line, skip frames above
// the option constructor's caller.
func WithCallerLocation(skip int) MessageOption {
	_, file, line, ok := runtime.Caller(skip + 1)
	return func(m *Message) {
		if ok {
			m.loc = SourceLocation{File: file, Line: line}
		}
	}
}

// NewMessage parses format, renders it once with the already
// culture-formatted args, and captures everything needed to re-envelope the
// text with a translated format later. The content culture must not be nil;
// use the registry's root culture for culture-neutral text.
func NewMessage(content *culture.Culture, format string, args []string, opts ...MessageOption) (*Message, error) {
	if content == nil {
		return nil, ErrNilCulture
	}
	f, err := composite.Parse(format)
	if err != nil {
		return nil, err
	}

	captured := make([]string, len(args))
	copy(captured, args)

	m := &Message{
		format:  f,
		culture: content,
		args:    captured,
		text:    f.Render(args...),
		resName: AutoResourceName(format),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Format returns the parsed composite format.
func (m *Message) Format() *composite.Format { return m.format }

// Culture returns the content culture the message was rendered with.
func (m *Message) Culture() *culture.Culture { return m.culture }

// Text returns the text rendered at creation time.
func (m *Message) Text() string { return m.text }

// ResourceName returns the translation lookup key, explicit or auto-derived.
func (m *Message) ResourceName() string { return m.resName }

// AutoNamed reports whether the resource name was derived from the format
// content rather than supplied explicitly.
func (m *Message) AutoNamed() bool { return IsAutoResourceName(m.resName) }

// Args returns a copy of the captured placeholder values.
func (m *Message) Args() []string {
	out := make([]string, len(m.args))
	copy(out, m.args)
	return out
}

// Location returns the recorded source location, if any.
func (m *Message) Location() (SourceLocation, bool) {
	return m.loc, m.loc != SourceLocation{}
}

func (m *Message) String() string { return m.text }
