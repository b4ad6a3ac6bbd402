// Package template implements the template registry (C1): compiling
// {N}-slot patterns, matching whole messages against them, and formatting a
// template back into text from captured slot values.
package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/aura/errs"
)

// MaxSlotIndex is the largest slot index a pattern may reference ({0}..{15}).
const MaxSlotIndex = 15

// Template is a parameterized response pattern. It is never mutated after
// compilation; registries hand out *Template values that callers must treat
// as read-only.
type Template struct {
	id          uint16
	pattern     string
	literals    []string // len(literals) == len(occurrences)+1
	occurrences []int    // slot index referenced by each placeholder occurrence, in pattern order
	slotCount   int
	re          *regexp.Regexp
}

// ID returns the template's 16-bit identifier.
func (t *Template) ID() uint16 { return t.id }

// Pattern returns the original pattern string used to compile the template.
func (t *Template) Pattern() string { return t.pattern }

// SlotCount returns the number of distinct slot indices referenced in the pattern.
func (t *Template) SlotCount() int { return t.slotCount }

// compile parses pattern into literal runs and slot occurrences, validates
// the {{/}} escaping rule and the <16 slot index constraint, and builds the
// anchored regular expression used by matchText.
//
// A capture group per placeholder *occurrence* (not per distinct slot index)
// is used, because RE2 has no backreferences: repeated-slot equality is
// enforced afterwards by comparing the occurrence values for each index.
func compile(id uint16, pattern string) (*Template, error) {
	if !utf8.ValidString(pattern) {
		return nil, fmt.Errorf("%w: pattern for id %d is not valid UTF-8", errs.ErrInvalidPattern, id)
	}

	var (
		literals    []string
		occurrences []int
		cur         strings.Builder
		maxSlot     = -1
	)

	runes := []rune(pattern)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch c {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				cur.WriteRune('{')
				i += 2
				continue
			}
			j := i + 1
			for j < len(runes) && runes[j] != '}' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("%w: unterminated slot placeholder in %q", errs.ErrInvalidPattern, pattern)
			}
			digits := string(runes[i+1 : j])
			if digits == "" {
				return nil, fmt.Errorf("%w: empty slot placeholder in %q", errs.ErrInvalidPattern, pattern)
			}
			n, err := strconv.Atoi(digits)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: slot placeholder {%s} is not a non-negative integer", errs.ErrInvalidPattern, digits)
			}
			if n > MaxSlotIndex {
				return nil, fmt.Errorf("%w: slot index %d exceeds maximum %d", errs.ErrInvalidPattern, n, MaxSlotIndex)
			}

			literals = append(literals, cur.String())
			cur.Reset()
			occurrences = append(occurrences, n)
			if n > maxSlot {
				maxSlot = n
			}
			i = j + 1
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				cur.WriteRune('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: stray '}' in %q", errs.ErrInvalidPattern, pattern)
		default:
			cur.WriteRune(c)
			i++
		}
	}
	literals = append(literals, cur.String())

	slotCount := 0
	if maxSlot >= 0 {
		slotCount = maxSlot + 1
		seen := make([]bool, slotCount)
		for _, occ := range occurrences {
			seen[occ] = true
		}
		for idx, ok := range seen {
			if !ok {
				return nil, fmt.Errorf("%w: slot index %d never referenced, contiguous 0-based slot numbering required", errs.ErrInvalidPattern, idx)
			}
		}
	}

	re, err := buildRegex(literals, occurrences)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidPattern, err)
	}

	return &Template{
		id:          id,
		pattern:     pattern,
		literals:    literals,
		occurrences: occurrences,
		slotCount:   slotCount,
		re:          re,
	}, nil
}

// buildRegex anchors the pattern's literal runs around lazy capture groups,
// one per placeholder occurrence. A capture group is allowed to match empty
// only when it sits directly between two placeholders with no separating
// literal text (the spec's "adjacent placeholders" exception); otherwise it
// must capture at least one byte.
func buildRegex(literals []string, occurrences []int) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	sb.WriteString(regexp.QuoteMeta(literals[0]))

	for i := range occurrences {
		allowEmpty := literals[i+1] == "" && i+1 < len(occurrences)
		if allowEmpty {
			sb.WriteString("(.*?)")
		} else {
			sb.WriteString("(.+?)")
		}
		sb.WriteString(regexp.QuoteMeta(literals[i+1]))
	}
	sb.WriteString("$")

	return regexp.Compile(sb.String())
}

// matchText attempts to match text against this template, returning the
// captured slot values indexed by slot number on success.
func (t *Template) matchText(text string) ([]string, bool) {
	m := t.re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	slots := make([]string, t.slotCount)
	set := make([]bool, t.slotCount)
	for occIdx, slotIdx := range t.occurrences {
		val := m[occIdx+1]
		if set[slotIdx] && slots[slotIdx] != val {
			return nil, false // repeated-slot equality violated
		}
		slots[slotIdx] = val
		set[slotIdx] = true
	}

	return slots, true
}

// format substitutes slots into the pattern, inserting the same value at
// every occurrence of a repeated slot index.
func (t *Template) format(slots []string) (string, error) {
	if len(slots) < t.slotCount {
		return "", fmt.Errorf("%w: template needs %d slots, got %d", errs.ErrSlotCountMismatch, t.slotCount, len(slots))
	}

	for _, s := range slots[:t.slotCount] {
		if !utf8.ValidString(s) {
			return "", errs.ErrInvalidUTF8
		}
	}

	var sb strings.Builder
	sb.WriteString(t.literals[0])
	for occIdx, slotIdx := range t.occurrences {
		sb.WriteString(slots[slotIdx])
		sb.WriteString(t.literals[occIdx+1])
	}

	return sb.String(), nil
}
