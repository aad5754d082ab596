package issues

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the globalization defect variants.
type Kind int

const (
	// KindMissingTranslation: a message found no translation anywhere in the
	// target culture's fallback chain.
	KindMissingTranslation Kind = iota

	// KindArgumentCountMismatch: a translated format expects a different
	// number of arguments than the message carries.
	KindArgumentCountMismatch

	// KindDuplicateResource: a resource name appeared more than once in one
	// translation batch; the first occurrence won.
	KindDuplicateResource

	// KindFormatParseError: a translation batch carried an unparseable
	// composite format.
	KindFormatParseError

	// KindIdentifierClash: two different culture names hashed to the same id
	// and one was reassigned. Urgent but non-fatal, and never suppressed.
	KindIdentifierClash
)

func (k Kind) String() string {
	switch k {
	case KindMissingTranslation:
		return "MissingTranslation"
	case KindArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case KindDuplicateResource:
		return "DuplicateResource"
	case KindFormatParseError:
		return "FormatParseError"
	case KindIdentifierClash:
		return "IdentifierClash"
	default:
		return "Unknown"
	}
}

// Issue is one finalized globalization defect. Which fields are meaningful
// depends on Kind; ID and Occurred are always stamped at publication.
type Issue struct {
	ID       uuid.UUID
	Kind     Kind
	Occurred time.Time

	// Culture is the target culture name for translation defects, or the
	// clashing culture name for KindIdentifierClash.
	Culture string

	// Resource is the translation lookup key involved, when any.
	Resource string

	// Format is the offending composite format source text, when any.
	Format string

	// Expected and Actual carry the argument counts of a
	// KindArgumentCountMismatch: what the translated format expects versus
	// what the message provides.
	Expected int
	Actual   int

	// Err is the parse failure of a KindFormatParseError.
	Err error

	// CultureID and Conflicts describe a KindIdentifierClash: the id finally
	// assigned and the names occupying the probed ids.
	CultureID uint32
	Conflicts []string
}

func (i Issue) String() string {
	switch i.Kind {
	case KindMissingTranslation:
		return fmt.Sprintf("%s: %q has no translation for %q", i.Kind, i.Resource, i.Culture)
	case KindArgumentCountMismatch:
		return fmt.Sprintf("%s: %q in %q expects %d arguments, message has %d", i.Kind, i.Resource, i.Culture, i.Expected, i.Actual)
	case KindDuplicateResource:
		return fmt.Sprintf("%s: %q duplicated in batch for %q", i.Kind, i.Resource, i.Culture)
	case KindFormatParseError:
		return fmt.Sprintf("%s: %q for %q: %v", i.Kind, i.Resource, i.Culture, i.Err)
	case KindIdentifierClash:
		return fmt.Sprintf("%s: %q reassigned to id %d, conflicts %v", i.Kind, i.Culture, i.CultureID, i.Conflicts)
	default:
		return i.Kind.String()
	}
}
