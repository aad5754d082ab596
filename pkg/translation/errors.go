package translation

import "errors"

var (
	// ErrRootCulture is returned when translations are set for the unnamed
	// root culture, which has no language of its own.
	ErrRootCulture = errors.New("translation: cannot set translations for the root culture")

	// ErrDefaultCulture is returned when translations are set for the
	// code-default culture: source formats already are that culture's text.
	ErrDefaultCulture = errors.New("translation: cannot set translations for the code-default culture")

	// ErrPureCulture is returned when translations are set for a pure
	// culture; entries belong to the concrete cultures of its fallback list.
	ErrPureCulture = errors.New("translation: cannot set translations for a pure culture")

	// ErrNilCulture is returned for a nil culture argument.
	ErrNilCulture = errors.New("translation: culture is nil")

	// ErrNilFormat is returned when a message is built without a format.
	ErrNilFormat = errors.New("translation: format is nil")
)
