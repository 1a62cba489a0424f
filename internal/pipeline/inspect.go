package pipeline

import (
	"os"
	"path/filepath"
	"regexp"

	ferrors "git.home.luguber.info/inful/multitex/internal/foundation/errors"
	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/variant"
)

// Binding is one level and the file that reveals it.
type Binding struct {
	Level string
	Flag  string
	File  string
}

// Preview describes what a run would produce without writing anything.
type Preview struct {
	BaseFile string
	Bindings []Binding
}

// Inspect reads source and returns the planned output, in generation order.
func Inspect(source string, pattern *regexp.Regexp, order levels.Order, baseSuffix string) (*Preview, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInput, "failed to read source").
			Fatal().
			WithContext("source", source).
			Build()
	}
	m := levels.Assign(levels.Scan(string(data), pattern), order, nil)

	p := &Preview{BaseFile: variant.FileName(source, baseSuffix)}
	for _, key := range m.Sorted() {
		flag, _ := m.Flag(key)
		p.Bindings = append(p.Bindings, Binding{
			Level: key,
			Flag:  flag,
			File:  filepath.Base(variant.FileName(source, key)),
		})
	}
	return p, nil
}
