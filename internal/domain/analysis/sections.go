package analysis

import (
	"sort"
	"strings"
)

// Section selects one optional block of the analysis output.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionIncome    Section = "income"
	SectionBalance   Section = "balance"
	SectionCash      Section = "cash"
	SectionEquity    Section = "equity"
	SectionDuPont    Section = "dupont"
	SectionRatios    Section = "ratios"
	SectionForecast  Section = "forecast"
	SectionAI        Section = "ai"
)

var knownSections = map[Section]bool{
	SectionDashboard: true,
	SectionIncome:    true,
	SectionBalance:   true,
	SectionCash:      true,
	SectionEquity:    true,
	SectionDuPont:    true,
	SectionRatios:    true,
	SectionForecast:  true,
	SectionAI:        true,
}

// SectionSet is the requested subset of output blocks. The zero value (or an
// empty request) selects everything.
type SectionSet struct {
	all      bool
	selected map[Section]bool
}

// AllSections selects every block.
func AllSections() SectionSet {
	return SectionSet{all: true}
}

// ParseSections builds a section set from raw request values. Unknown names
// are returned for the caller to reject; "ai" implies income and cash since
// the narrative digest is built from both.
func ParseSections(raw []string) (SectionSet, []string) {
	if len(raw) == 0 {
		return AllSections(), nil
	}

	set := SectionSet{selected: make(map[Section]bool, len(raw))}
	var unknown []string
	for _, r := range raw {
		s := Section(strings.ToLower(strings.TrimSpace(r)))
		if s == "" {
			continue
		}
		if !knownSections[s] {
			unknown = append(unknown, r)
			continue
		}
		set.selected[s] = true
	}

	if len(set.selected) == 0 && len(unknown) == 0 {
		return AllSections(), nil
	}

	if set.selected[SectionAI] {
		set.selected[SectionIncome] = true
		set.selected[SectionCash] = true
	}

	return set, unknown
}

// Wants reports whether the section was requested.
func (s SectionSet) Wants(section Section) bool {
	return s.all || s.selected[section]
}

// All reports whether every section was requested.
func (s SectionSet) All() bool {
	return s.all
}

// Key returns a canonical representation for cache keys: sorted section
// names, or "all".
func (s SectionSet) Key() string {
	if s.all {
		return "all"
	}
	names := make([]string, 0, len(s.selected))
	for sec := range s.selected {
		names = append(names, string(sec))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
