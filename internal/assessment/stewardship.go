package assessment

import (
	"sort"
	"strings"
)

// Stewardship is the program applied to a site.
type Stewardship string

const (
	StewardshipNone         Stewardship = "None"
	StewardshipSeeding      Stewardship = "Seeding"
	StewardshipGreenStreets Stewardship = "Green Streets"

	// StewardshipAll labels rows aggregated over every program.
	StewardshipAll Stewardship = "All"
)

// Known reports whether s is one of the three programs.
func (s Stewardship) Known() bool {
	switch s {
	case StewardshipNone, StewardshipSeeding, StewardshipGreenStreets:
		return true
	}
	return false
}

func (s Stewardship) rank() int {
	switch s {
	case StewardshipNone:
		return 0
	case StewardshipSeeding:
		return 1
	case StewardshipGreenStreets:
		return 2
	case StewardshipAll:
		return 4
	}
	return 3
}

// SortStewardships orders programs None, Seeding, Green Streets, then
// unrecognized labels alphabetically, then All.
func SortStewardships(list []Stewardship) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := list[i].rank(), list[j].rank()
		if ri != rj {
			return ri < rj
		}
		return list[i] < list[j]
	})
}

// StewardshipResolver maps raw sheet labels onto programs.
type StewardshipResolver struct {
	aliases map[string]Stewardship
}

// NewStewardshipResolver builds a resolver from label -> program aliases.
// Keys are matched case-insensitively after trimming. Targets naming one of
// the three programs in any case resolve to that program.
func NewStewardshipResolver(aliases map[string]string) *StewardshipResolver {
	r := &StewardshipResolver{aliases: make(map[string]Stewardship, len(aliases)+3)}
	for _, s := range []Stewardship{StewardshipNone, StewardshipSeeding, StewardshipGreenStreets} {
		r.aliases[strings.ToLower(string(s))] = s
	}
	r.aliases[""] = StewardshipNone
	for raw, target := range aliases {
		if s, ok := CanonicalStewardship(target); ok {
			r.aliases[foldLabel(raw)] = s
		} else {
			r.aliases[foldLabel(raw)] = Stewardship(strings.Join(strings.Fields(target), " "))
		}
	}
	return r
}

// Resolve returns the program for a raw label. Labels that are not one of
// the three programs come back whitespace-collapsed with ok=false. A label
// spelling the All aggregate is renamed so it cannot merge with it.
func (r *StewardshipResolver) Resolve(raw string) (Stewardship, bool) {
	s, ok := r.aliases[foldLabel(raw)]
	if !ok {
		s = Stewardship(strings.Join(strings.Fields(raw), " "))
	}
	if strings.EqualFold(string(s), string(StewardshipAll)) {
		s = s + " (label)"
	}
	return s, s.Known()
}

// CanonicalStewardship matches name against the three programs ignoring
// case and surrounding whitespace.
func CanonicalStewardship(name string) (Stewardship, bool) {
	folded := foldLabel(name)
	for _, s := range []Stewardship{StewardshipNone, StewardshipSeeding, StewardshipGreenStreets} {
		if folded == strings.ToLower(string(s)) {
			return s, true
		}
	}
	return "", false
}

func foldLabel(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}
