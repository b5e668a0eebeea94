// Package features pairs the feature columns of two assessment sheets.
//
// Field crews rename columns between assessments ("Sediment" becomes
// "Sediment / Debris"), so columns are matched on a canonical key rather
// than on the literal header. Aliases from configuration take precedence
// over the derived key.
package features

import (
	"sort"
	"strings"
	"unicode"

	"bioretention/internal/workbook"
)

// Pair is one feature present in both sheets.
type Pair struct {
	Name  string // output column name (the later sheet's header)
	Key   string
	Left  string // header in the earlier sheet
	Right string // header in the later sheet
}

// Alignment is the result of matching two header lists.
type Alignment struct {
	Pairs     []Pair
	LeftOnly  []string
	RightOnly []string
}

// Names returns the pair names in order.
func (a Alignment) Names() []string {
	out := make([]string, len(a.Pairs))
	for i, p := range a.Pairs {
		out[i] = p.Name
	}
	return out
}

// Aligner derives canonical keys for headers.
type Aligner struct {
	aliases map[string]string
}

// NewAligner builds an aligner. Alias keys are headers, matched
// case-insensitively; values are the shared name both headers map to.
func NewAligner(aliases map[string]string) *Aligner {
	a := &Aligner{aliases: make(map[string]string, len(aliases))}
	for header, target := range aliases {
		a.aliases[strings.ToLower(workbook.NormalizeHeader(header))] = target
	}
	return a
}

// Key returns the canonical key of a header: lower-case letters and digits
// of the alias target, or of the header itself.
func (a *Aligner) Key(header string) string {
	name := header
	if target, ok := a.aliases[strings.ToLower(workbook.NormalizeHeader(header))]; ok {
		name = target
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Align matches left (earlier) against right (later) headers. Pairs are
// sorted by name; when two headers on one side share a key the first wins
// and the other is reported as unmatched.
func (a *Aligner) Align(left, right []string) Alignment {
	leftKeys, leftDup := a.index(left)
	rightKeys, rightDup := a.index(right)

	var out Alignment
	out.LeftOnly = append(out.LeftOnly, leftDup...)
	out.RightOnly = append(out.RightOnly, rightDup...)

	for _, h := range left {
		key := a.Key(h)
		if leftKeys[key] != h {
			continue
		}
		if rh, ok := rightKeys[key]; ok && key != "" {
			out.Pairs = append(out.Pairs, Pair{Name: rh, Key: key, Left: h, Right: rh})
		} else {
			out.LeftOnly = append(out.LeftOnly, h)
		}
	}
	for _, h := range right {
		key := a.Key(h)
		if rightKeys[key] != h {
			continue
		}
		if _, ok := leftKeys[key]; !ok || key == "" {
			out.RightOnly = append(out.RightOnly, h)
		}
	}

	sort.Slice(out.Pairs, func(i, j int) bool { return out.Pairs[i].Name < out.Pairs[j].Name })
	sort.Strings(out.LeftOnly)
	sort.Strings(out.RightOnly)
	return out
}

func (a *Aligner) index(headers []string) (map[string]string, []string) {
	keys := make(map[string]string, len(headers))
	var dups []string
	for _, h := range headers {
		key := a.Key(h)
		if _, taken := keys[key]; taken {
			dups = append(dups, h)
			continue
		}
		keys[key] = h
	}
	return keys, dups
}

// Align is a convenience for NewAligner(aliases).Align(left, right).
func Align(left, right []string, aliases map[string]string) Alignment {
	return NewAligner(aliases).Align(left, right)
}
