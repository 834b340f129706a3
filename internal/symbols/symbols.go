// Package symbols reads ELF symbol tables and turns symbols into new
// measurements.
package symbols

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

// Symbol is one decoded symbol table entry. Only Name and Address are used
// by Import.
type Symbol struct {
	Name    string `json:"name"`
	Address uint64 `json:"address"`
	Size    uint64 `json:"size"`
	Bind    string `json:"bind"`
	Type    string `json:"type"`
	Section string `json:"section"`
}

// Import appends one UBYTE measurement per symbol to the named module, or to
// the first module when module is nil. Existing records are never replaced,
// so a symbol whose name is already taken yields a duplicate. It returns the
// number of measurements added.
func Import(f *a2l.File, module *string, syms []Symbol) (int, error) {
	target, err := targetModule(f, module)
	if err != nil {
		return 0, err
	}
	for _, s := range syms {
		target.Measurement = append(target.Measurement, newMeasurement(s))
	}
	return len(syms), nil
}

func targetModule(f *a2l.File, name *string) (*a2l.Module, error) {
	if name == nil {
		if len(f.Project.Module) == 0 {
			return nil, fmt.Errorf("%w: no modules in project", apperr.ErrNotFound)
		}
		return f.Project.Module[0], nil
	}
	for _, m := range f.Project.Module {
		if m.Name == *name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: module %s", apperr.ErrNotFound, *name)
}

func newMeasurement(s Symbol) *a2l.Measurement {
	m := a2l.NewMeasurement(s.Name, a2l.Ubyte)
	m.EcuAddress = &a2l.EcuAddress{Address: uint32(s.Address)}
	m.LowerLimit = 0
	m.UpperLimit = 255
	m.Resolution = 1
	m.Accuracy = 0
	m.Conversion = "NO_COMPU_METHOD"
	return m
}

// Filter keeps the symbols whose name matches re (nil matches all) and whose
// type is one of types (empty allows all).
func Filter(syms []Symbol, re *regexp.Regexp, types ...string) []Symbol {
	out := make([]Symbol, 0, len(syms))
	for _, s := range syms {
		if re != nil && !re.MatchString(s.Name) {
			continue
		}
		if len(types) > 0 && !slices.Contains(types, s.Type) {
			continue
		}
		out = append(out, s)
	}
	return out
}
