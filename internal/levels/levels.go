// Package levels discovers reveal-level markers in a source document and binds
// each distinct level to a generated flag name.
package levels

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/multitex/internal/flags"
	"git.home.luguber.info/inful/multitex/internal/foundation/normalization"
)

// DefaultPattern matches a run of digits enclosed in double braces, e.g. {{12}}.
const DefaultPattern = `\{\{(\d+)\}\}`

// Order controls the sequence in which discovered levels receive flags.
type Order string

const (
	// OrderSorted assigns flags in ascending string order of the level key.
	OrderSorted Order = "sorted"
	// OrderDiscovery assigns flags in order of first occurrence in the text.
	OrderDiscovery Order = "discovery"
)

var orderNormalizer = normalization.NewNormalizer(map[string]Order{
	"sorted":    OrderSorted,
	"sort":      OrderSorted,
	"discovery": OrderDiscovery,
	"scan":      OrderDiscovery,
}, OrderSorted)

// ParseOrder converts user input to an Order. Empty input selects OrderSorted.
func ParseOrder(raw string) (Order, error) {
	return orderNormalizer.Parse(raw)
}

var defaultPattern = regexp.MustCompile(DefaultPattern)

// CompilePattern compiles a marker pattern. The expression must contain exactly
// one capture group, which yields the level key. Empty input selects DefaultPattern.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return defaultPattern, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile marker pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return nil, fmt.Errorf("marker pattern %q must have exactly one capture group, has %d", expr, re.NumSubexp())
	}
	return re, nil
}

// Scan returns the distinct level keys in text, in order of first occurrence.
// A nil pattern selects DefaultPattern.
func Scan(text string, pattern *regexp.Regexp) []string {
	if pattern == nil {
		pattern = defaultPattern
	}
	var keys []string
	seen := make(map[string]struct{})
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Mapping binds level keys to flag names. It is built once per run by Assign
// and never modified afterwards.
type Mapping struct {
	keys   []string
	byKey  map[string]string
	sorted []string
}

// Assign allocates one flag per distinct key from alloc. A nil alloc uses a
// fresh allocator.
func Assign(keys []string, order Order, alloc *flags.Allocator) Mapping {
	if alloc == nil {
		alloc = flags.NewAllocator()
	}
	ordered := dedupe(keys)
	if order != OrderDiscovery {
		slices.Sort(ordered)
	}

	m := Mapping{
		keys:   ordered,
		byKey:  make(map[string]string, len(ordered)),
		sorted: slices.Sorted(slices.Values(ordered)),
	}
	for _, key := range ordered {
		m.byKey[key] = alloc.Next()
	}
	return m
}

func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Len reports the number of bound levels.
func (m Mapping) Len() int { return len(m.keys) }

// Flag returns the flag bound to key.
func (m Mapping) Flag(key string) (string, bool) {
	f, ok := m.byKey[key]
	return f, ok
}

// Keys returns the levels in assignment order.
func (m Mapping) Keys() []string { return slices.Clone(m.keys) }

// Sorted returns the levels in ascending string order, the order in which
// variants are generated.
func (m Mapping) Sorted() []string { return slices.Clone(m.sorted) }

// Sanitize replaces every marker matched by pattern with the flag bound to its
// captured key. Replacement is literal; markers without a binding are left
// untouched. A nil pattern selects DefaultPattern.
func Sanitize(text string, pattern *regexp.Regexp, m Mapping) string {
	if m.Len() == 0 {
		return text
	}
	if pattern == nil {
		pattern = defaultPattern
	}
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range matches {
		if loc[2] < 0 {
			continue
		}
		flag, ok := m.byKey[text[loc[2]:loc[3]]]
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(flag)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
