package composite

// Placeholder records where an argument is inserted into the pure text of a
// Format. Offset is a byte offset into Format.Text(); offsets are strictly
// increasing across the placeholder list and never exceed the text length.
type Placeholder struct {
	Offset int
	Arg    int
}

// Format is an immutable parsed composite format. The pure text has brace
// escapes already resolved, so rendering is a single linear pass that stitches
// text segments and argument values together without re-parsing.
type Format struct {
	text         string
	placeholders []Placeholder
	argCount     int
	originalLen  int
}

// maxArgIndex is the highest placeholder index accepted by Parse.
const maxArgIndex = 99

// Parse parses text into a Format. It accepts only positional placeholders
// `{N}` with N in [0,99] (no leading zero) and doubled braces as literal-brace
// escapes. Any alignment or format specifier inside braces is a parse error.
// The returned error, when non-nil, is always a *ParseError.
func Parse(text string) (*Format, error) {
	var (
		pure         []byte
		placeholders []Placeholder
		maxIndex     = -1
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				pure = append(pure, '{')
				i++
				continue
			}
			if i+1 >= len(text) {
				return nil, parseErr(i, ErrUnexpectedEnd)
			}
			start := i
			i++
			if text[i] < '0' || text[i] > '9' {
				return nil, parseErr(i, ErrMissingIndex)
			}
			index := 0
			digits := 0
			for i < len(text) && text[i] >= '0' && text[i] <= '9' {
				index = index*10 + int(text[i]-'0')
				digits++
				i++
			}
			if digits > 1 && text[start+1] == '0' {
				return nil, parseErr(start+1, ErrLeadingZero)
			}
			if digits > 2 || index > maxArgIndex {
				return nil, parseErr(start+1, ErrIndexOutOfRange)
			}
			if i >= len(text) {
				return nil, parseErr(i, ErrUnexpectedEnd)
			}
			if text[i] == ',' || text[i] == ':' {
				return nil, parseErr(i, ErrSpecifier)
			}
			if text[i] != '}' {
				return nil, parseErr(i, ErrUnexpectedChar)
			}
			placeholders = append(placeholders, Placeholder{Offset: len(pure), Arg: index})
			if index > maxIndex {
				maxIndex = index
			}
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				pure = append(pure, '}')
				i++
				continue
			}
			return nil, parseErr(i, ErrStrayBrace)
		default:
			pure = append(pure, c)
		}
	}

	return &Format{
		text:         string(pure),
		placeholders: placeholders,
		argCount:     maxIndex + 1,
		originalLen:  len(text),
	}, nil
}

// MustParse is like Parse but panics on error. Intended for formats known
// valid at compile time, typically in tests and package-level declarations.
func MustParse(text string) *Format {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// Text returns the pure text of the format with brace escapes resolved and
// placeholders removed.
func (f *Format) Text() string { return f.text }

// Placeholders returns the ordered insertion points. The returned slice is a
// copy and safe to retain.
func (f *Format) Placeholders() []Placeholder {
	out := make([]Placeholder, len(f.placeholders))
	copy(out, f.placeholders)
	return out
}

// ArgCount returns the expected number of arguments, i.e. the highest
// placeholder index plus one. A format without placeholders reports zero.
func (f *Format) ArgCount() int { return f.argCount }

// OriginalLen returns the byte length of the source text the format was
// parsed from.
func (f *Format) OriginalLen() int { return f.originalLen }
