// Package variant derives the cumulative document variants from sanitized
// content and writes them to disk.
package variant

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/multitex/internal/levels"
)

// Extension is appended to every generated file name.
const Extension = ".tex"

// Variant is one generated document.
type Variant struct {
	// Level is the level key this variant reveals; empty for the base case.
	Level string
	// Flag is the flag switched on by this variant; empty for the base case.
	Flag string
	// Suffix is appended to the base name: the base suffix or the level key.
	Suffix  string
	Content string
}

// IsBase reports whether v is the base case.
func (v Variant) IsBase() bool { return v.Level == "" }

// BaseName returns the source file name without directory and extension.
func BaseName(source string) string {
	name := filepath.Base(source)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// FileName returns the output file name for source with the given suffix.
func FileName(source, suffix string) string {
	if suffix == "" {
		return BaseName(source) + Extension
	}
	return BaseName(source) + "_" + suffix + Extension
}

// Flip switches the declaration \<flag>false to \<flag>true.
func Flip(content, flag string) string {
	return strings.ReplaceAll(content, `\`+flag+"false", `\`+flag+"true")
}

// Plan returns the base variant followed by one variant per level in
// ascending level order. Each level variant carries the content of the one
// before it with one more flag switched on.
func Plan(sanitized string, m levels.Mapping, baseSuffix string) []Variant {
	out := make([]Variant, 0, m.Len()+1)
	out = append(out, Variant{Suffix: baseSuffix, Content: sanitized})

	content := sanitized
	for _, key := range m.Sorted() {
		flag, _ := m.Flag(key)
		content = Flip(content, flag)
		out = append(out, Variant{
			Level:   key,
			Flag:    flag,
			Suffix:  key,
			Content: content,
		})
	}
	return out
}
