package symbols

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

// ReadELF returns the named entries of the symbol table in r, sorted by name.
// A binary without a symbol table yields an empty list.
func ReadELF(r io.ReaderAt) ([]Symbol, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("%w: elf: %w", apperr.ErrParse, err)
	}
	defer f.Close()

	raw, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		return []Symbol{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: elf symbols: %w", apperr.ErrParse, err)
	}

	out := make([]Symbol, 0, len(raw))
	for _, s := range raw {
		if s.Name == "" {
			continue
		}
		out = append(out, Symbol{
			Name:    s.Name,
			Address: s.Value,
			Size:    s.Size,
			Bind:    enumName(elf.ST_BIND(s.Info).String(), "STB_", "BIND_", uint8(elf.ST_BIND(s.Info))),
			Type:    enumName(elf.ST_TYPE(s.Info).String(), "STT_", "TYPE_", uint8(elf.ST_TYPE(s.Info))),
			Section: sectionName(f, s.Section),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// enumName strips prefix from a known constant name. Values debug/elf can
// only describe relative to another constant fall back to fallback+n.
func enumName(s, prefix, fallback string, n uint8) string {
	if name, ok := strings.CutPrefix(s, prefix); ok && !strings.Contains(name, "+") {
		return name
	}
	return fmt.Sprintf("%s%d", fallback, n)
}

func sectionName(f *elf.File, idx elf.SectionIndex) string {
	if int(idx) < len(f.Sections) {
		return f.Sections[idx].Name
	}
	return ""
}
