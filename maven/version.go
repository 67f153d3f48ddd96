package maven

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Version is a Maven version split into comparable items.
type Version struct {
	Raw   string
	items []versionItem
}

type versionItem struct {
	value   string
	numeric bool
	sep     byte
}

func (v *Version) String() string { return v.Raw }

// ParseVersion splits s on '.', '-' and '_' and on digit/letter transitions.
// Trailing zero and release qualifiers are dropped, so 1.0.0.Final equals 1.
func ParseVersion(s string) *Version {
	s = strings.TrimSpace(s)
	var items []versionItem
	var cur strings.Builder
	curNumeric := false
	var sep byte

	flush := func() {
		if cur.Len() > 0 {
			items = append(items, versionItem{value: cur.String(), numeric: curNumeric, sep: sep})
			cur.Reset()
			sep = 0
		}
	}
	for _, r := range s {
		switch {
		case r == '.' || r == '-' || r == '_':
			flush()
			sep = byte(r)
		case unicode.IsDigit(r):
			if cur.Len() > 0 && !curNumeric {
				flush()
			}
			curNumeric = true
			cur.WriteRune(r)
		default:
			if cur.Len() > 0 && curNumeric {
				flush()
			}
			curNumeric = false
			cur.WriteRune(r)
		}
	}
	flush()

	for len(items) > 0 && items[len(items)-1].isNull() {
		items = items[:len(items)-1]
	}
	return &Version{Raw: s, items: items}
}

func (i versionItem) isNull() bool {
	if i.numeric {
		n, err := strconv.ParseInt(i.value, 10, 64)
		return err == nil && n == 0
	}
	switch strings.ToLower(i.value) {
	case "", "final", "ga", "release":
		return true
	}
	return false
}

const releaseRank = 6

func qualifierRank(q string) int {
	switch strings.ToLower(q) {
	case "alpha", "a":
		return 1
	case "beta", "b":
		return 2
	case "milestone", "m":
		return 3
	case "rc", "cr":
		return 4
	case "snapshot":
		return 5
	case "", "final", "ga", "release":
		return releaseRank
	case "sp":
		return 7
	default:
		return 8
	}
}

// CompareVersions orders a and b; the result is -1, 0 or 1.
func CompareVersions(a, b *Version) int {
	n := max(len(a.items), len(b.items))
	for i := range n {
		switch {
		case i >= len(a.items):
			if c := padCompare(b.items[i]); c != 0 {
				return -c
			}
			continue
		case i >= len(b.items):
			if c := padCompare(a.items[i]); c != 0 {
				return c
			}
			continue
		}
		if c := compareItems(a.items[i], b.items[i]); c != 0 {
			return c
		}
	}
	return 0
}

// padCompare compares an item against the missing item of a shorter version.
func padCompare(it versionItem) int {
	if it.isNull() {
		return 0
	}
	if it.numeric {
		return 1
	}
	return cmpInt(qualifierRank(it.value), releaseRank)
}

func compareItems(a, b versionItem) int {
	switch {
	case a.numeric && b.numeric:
		x, _ := strconv.ParseInt(a.value, 10, 64)
		y, _ := strconv.ParseInt(b.value, 10, 64)
		if c := cmpInt(x, y); c != 0 {
			return c
		}
		return cmpInt(sepRank(a.sep), sepRank(b.sep))
	case a.numeric:
		return 1
	case b.numeric:
		return -1
	}
	if c := cmpInt(qualifierRank(a.value), qualifierRank(b.value)); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.value), strings.ToLower(b.value))
}

func sepRank(s byte) int64 {
	switch s {
	case '-':
		return 1
	case '.':
		return 2
	}
	return 0
}

func cmpInt[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// VersionRange is one bracketed interval such as [1.0,2.0). A nil bound is
// unbounded.
type VersionRange struct {
	Min, Max                   *Version
	MinInclusive, MaxInclusive bool
}

func (r VersionRange) Contains(v *Version) bool {
	if r.Min != nil {
		c := CompareVersions(v, r.Min)
		if c < 0 || (c == 0 && !r.MinInclusive) {
			return false
		}
	}
	if r.Max != nil {
		c := CompareVersions(v, r.Max)
		if c > 0 || (c == 0 && !r.MaxInclusive) {
			return false
		}
	}
	return true
}

// Requirement is a declared dependency version: either a soft version or a
// union of hard ranges.
type Requirement struct {
	Raw    string
	Soft   *Version
	Ranges []VersionRange
}

func (r *Requirement) IsRange() bool { return len(r.Ranges) > 0 }

// Allows reports whether v satisfies the requirement. Soft versions allow
// only themselves.
func (r *Requirement) Allows(v *Version) bool {
	if !r.IsRange() {
		return CompareVersions(r.Soft, v) == 0
	}
	for _, rg := range r.Ranges {
		if rg.Contains(v) {
			return true
		}
	}
	return false
}

func ParseRequirement(s string) (*Requirement, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty version requirement")
	}
	if !strings.ContainsAny(s, "[](),") {
		return &Requirement{Raw: s, Soft: ParseVersion(s)}, nil
	}

	req := &Requirement{Raw: s}
	rest := s
	for rest != "" {
		rest = strings.TrimLeft(rest, ", ")
		if rest == "" {
			break
		}
		if rest[0] != '[' && rest[0] != '(' {
			return nil, fmt.Errorf("invalid version range %q", s)
		}
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return nil, fmt.Errorf("unterminated version range %q", s)
		}
		rg, err := parseRange(rest[:end+1])
		if err != nil {
			return nil, err
		}
		req.Ranges = append(req.Ranges, rg)
		rest = rest[end+1:]
	}
	return req, nil
}

func parseRange(s string) (VersionRange, error) {
	inner := s[1 : len(s)-1]
	lo, hi, hasComma := strings.Cut(inner, ",")
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if !hasComma {
		if lo == "" || s[0] != '[' || s[len(s)-1] != ']' {
			return VersionRange{}, fmt.Errorf("invalid version range %q", s)
		}
		v := ParseVersion(lo)
		return VersionRange{Min: v, Max: v, MinInclusive: true, MaxInclusive: true}, nil
	}
	r := VersionRange{MinInclusive: s[0] == '[', MaxInclusive: s[len(s)-1] == ']'}
	if lo != "" {
		r.Min = ParseVersion(lo)
	}
	if hi != "" {
		r.Max = ParseVersion(hi)
	}
	return r, nil
}
