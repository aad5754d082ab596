// Package composite parses and renders positional composite format strings.
//
// A composite format contains literal text and positional placeholders of the
// form `{N}` where N is an argument index between 0 and 99. Doubled braces
// (`{{` and `}}`) escape literal braces. Alignment (`{0,5}`) and format
// specifiers (`{0:N2}`) are intentionally rejected: a format is parsed once
// into an immutable Format and rendered many times against already formatted
// string arguments, so there is nothing left to format at render time.
//
// Basic usage:
//
//	f, err := composite.Parse("Hello {0}, you have {1} items")
//	if err != nil {
//		// *composite.ParseError carries the offending position
//	}
//	text := f.Render("Bob", "3") // "Hello Bob, you have 3 items"
//
// Render is lenient about argument counts: missing trailing arguments render
// as empty substitutions and extra arguments are ignored. Callers that care
// about the drift should compare len(args) with Format.ArgCount.
package composite
