package composite

import "strings"

// Render substitutes args into the format and returns the result. Rendering
// never fails: placeholders whose index is beyond len(args) render as empty
// substitutions and surplus arguments are ignored. It is a single linear pass
// over the pure text.
func (f *Format) Render(args ...string) string {
	if len(f.placeholders) == 0 {
		return f.text
	}

	var b strings.Builder
	size := len(f.text)
	for _, a := range args {
		size += len(a)
	}
	b.Grow(size)

	prev := 0
	for _, ph := range f.placeholders {
		b.WriteString(f.text[prev:ph.Offset])
		if ph.Arg < len(args) {
			b.WriteString(args[ph.Arg])
		}
		prev = ph.Offset
	}
	b.WriteString(f.text[prev:])

	return b.String()
}

// Reconstruct rebuilds the composite source text: placeholders become `{i}`
// again and literal braces are re-doubled. For any text accepted by Parse,
// Reconstruct(Parse(text)) == text.
func (f *Format) Reconstruct() string {
	var b strings.Builder
	b.Grow(f.originalLen)

	prev := 0
	for _, ph := range f.placeholders {
		writeEscaped(&b, f.text[prev:ph.Offset])
		b.WriteByte('{')
		writeIndex(&b, ph.Arg)
		b.WriteByte('}')
		prev = ph.Offset
	}
	writeEscaped(&b, f.text[prev:])

	return b.String()
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '{' || c == '}' {
			b.WriteByte(c)
		}
		b.WriteByte(c)
	}
}

func writeIndex(b *strings.Builder, n int) {
	if n >= 10 {
		b.WriteByte(byte('0' + n/10))
	}
	b.WriteByte(byte('0' + n%10))
}
