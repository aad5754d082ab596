package issues

import (
	"sort"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/translation"
)

// FormatOccurrence is one call site binding a resource name to a format.
type FormatOccurrence struct {
	Resource string
	File     string
	Line     int
	Auto     bool
}

// FormatUsage groups every occurrence of one format source text.
type FormatUsage struct {
	Format      string
	Occurrences []FormatOccurrence
}

// NameConflict is one resource name bound to more than one format, which is
// a correctness defect: lookups by that name are ambiguous.
type NameConflict struct {
	Resource string
	Formats  []string
}

// Report is a point-in-time snapshot of the agent's bookkeeping: the
// published issue sets plus three diagnostics derived from format
// occurrence tracking.
type Report struct {
	// MissingTranslations and ArgumentMismatches hold the first published
	// occurrence per (culture, resource name), in publication order.
	MissingTranslations []Issue
	ArgumentMismatches  []Issue

	// IdentifierClashes holds every clash ever recorded.
	IdentifierClashes []Issue

	// AutoDuplicates lists formats used under both an auto-derived and an
	// explicit resource name: the auto-named call sites duplicate an already
	// named resource.
	AutoDuplicates []FormatUsage

	// MergeCandidates lists formats reachable through several distinct
	// resource names; the names could be merged.
	MergeCandidates []FormatUsage

	// NameConflicts lists resource names bound to different formats.
	NameConflicts []NameConflict
}

// buildReport runs on the consumer goroutine (or on a frozen agent), so it
// reads the bookkeeping without synchronization.
func (a *Agent) buildReport() *Report {
	r := &Report{
		MissingTranslations: append([]Issue(nil), a.missing...),
		ArgumentMismatches:  append([]Issue(nil), a.mismatches...),
		IdentifierClashes:   append([]Issue(nil), *a.clashes.Load()...),
	}

	namesToFormats := make(map[string]map[string]struct{})
	for _, rec := range a.records {
		names := make(map[string]struct{})
		hasAuto, hasExplicit := false, false
		for _, occ := range rec.occurrences {
			names[occ.resource] = struct{}{}
			if occ.auto {
				hasAuto = true
			} else {
				hasExplicit = true
			}

			formats, ok := namesToFormats[occ.resource]
			if !ok {
				formats = make(map[string]struct{})
				namesToFormats[occ.resource] = formats
			}
			formats[rec.format] = struct{}{}
		}

		usage := FormatUsage{Format: rec.format, Occurrences: make([]FormatOccurrence, 0, len(rec.occurrences))}
		for _, occ := range rec.occurrences {
			usage.Occurrences = append(usage.Occurrences, FormatOccurrence{
				Resource: occ.resource,
				File:     occ.file,
				Line:     occ.line,
				Auto:     occ.auto,
			})
		}
		if hasAuto && hasExplicit {
			r.AutoDuplicates = append(r.AutoDuplicates, usage)
		}
		if len(names) > 1 {
			r.MergeCandidates = append(r.MergeCandidates, usage)
		}
	}

	for name, formats := range namesToFormats {
		if len(formats) < 2 || translation.IsAutoResourceName(name) {
			continue
		}
		conflict := NameConflict{Resource: name, Formats: make([]string, 0, len(formats))}
		for format := range formats {
			conflict.Formats = append(conflict.Formats, format)
		}
		sort.Strings(conflict.Formats)
		r.NameConflicts = append(r.NameConflicts, conflict)
	}

	// Map iteration order is random; reports should be stable.
	sort.Slice(r.AutoDuplicates, func(i, j int) bool { return r.AutoDuplicates[i].Format < r.AutoDuplicates[j].Format })
	sort.Slice(r.MergeCandidates, func(i, j int) bool { return r.MergeCandidates[i].Format < r.MergeCandidates[j].Format })
	sort.Slice(r.NameConflicts, func(i, j int) bool { return r.NameConflicts[i].Resource < r.NameConflicts[j].Resource })

	return r
}
