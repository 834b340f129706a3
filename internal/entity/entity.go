// Package entity lists and edits the modules and core records of a document
// through their flattened Entity view.
package entity

import (
	"strconv"
	"strings"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
)

// Metadata summarizes f. warnings is the parse warning count, zero after
// any mutation.
func Metadata(f *a2l.File, warnings int) models.Metadata {
	md := models.Metadata{
		ProjectName:           f.Project.Name,
		ProjectLongIdentifier: f.Project.LongIdentifier,
		ModuleNames:           make([]string, 0, len(f.Project.Module)),
		WarningCount:          warnings,
	}
	for _, m := range f.Project.Module {
		md.ModuleNames = append(md.ModuleNames, m.Name)
	}
	if h := f.Project.Header; h != nil {
		if c := strings.TrimSpace(h.Comment); c != "" {
			md.HeaderComment = &c
		}
	}
	if v := f.Asap2Version; v != nil {
		s := strconv.Itoa(int(v.VersionNo)) + "." + strconv.Itoa(int(v.UpgradeNo))
		md.Asap2Version = &s
	}
	return md
}

// List flattens f module by module: the module itself, then its
// measurements, characteristics and axis points in stored order.
func List(f *a2l.File) []models.Entity {
	out := []models.Entity{}
	for _, m := range f.Project.Module {
		long := m.LongIdentifier
		out = append(out, models.Entity{Kind: models.KindModule, Name: m.Name, LongIdentifier: &long})
		out = appendNamed(out, models.KindMeasurement, m.Measurement)
		out = appendNamed(out, models.KindCharacteristic, m.Characteristic)
		out = appendNamed(out, models.KindAxisPts, m.AxisPts)
	}
	return out
}

func appendNamed[T a2l.NamedRecord](out []models.Entity, kind models.EntityKind, records []T) []models.Entity {
	for _, r := range records {
		out = append(out, models.Entity{Kind: kind, Name: r.ObjectName()})
	}
	return out
}

// Result bundles the metadata and entity list after a mutation.
func Result(f *a2l.File) models.UpdateResult {
	return models.UpdateResult{Metadata: Metadata(f, 0), Entities: List(f)}
}

// Rename renames every entity of kind currently called oldName. Records are
// matched in every module, so same-named records in different modules are
// all renamed. It reports how many entities changed; zero is not an error.
func Rename(f *a2l.File, kind models.EntityKind, oldName, newName string) int {
	n := 0
	for _, m := range f.Project.Module {
		switch kind {
		case models.KindModule:
			if m.Name == oldName {
				m.SetObjectName(newName)
				n++
			}
		case models.KindMeasurement:
			n += renameIn(m.Measurement, oldName, newName)
		case models.KindCharacteristic:
			n += renameIn(m.Characteristic, oldName, newName)
		case models.KindAxisPts:
			n += renameIn(m.AxisPts, oldName, newName)
		}
	}
	return n
}

func renameIn[T a2l.NamedRecord](records []T, oldName, newName string) int {
	n := 0
	for _, r := range records {
		if r.ObjectName() == oldName {
			r.SetObjectName(newName)
			n++
		}
	}
	return n
}

// SetModuleLongIdentifier updates the description of the module called name.
// It reports false when no module matches.
func SetModuleLongIdentifier(f *a2l.File, name, value string) bool {
	for _, m := range f.Project.Module {
		if m.Name == name {
			m.LongIdentifier = value
			return true
		}
	}
	return false
}

// UpdateProjectMetadata sets the project name and description. A blank
// header comment removes the header; otherwise the trimmed comment replaces
// the existing one or starts a new header.
func UpdateProjectMetadata(f *a2l.File, name, longIdentifier string, headerComment *string) {
	f.Project.Name = name
	f.Project.LongIdentifier = longIdentifier

	var comment string
	if headerComment != nil {
		comment = strings.TrimSpace(*headerComment)
	}
	switch {
	case comment == "":
		f.Project.Header = nil
	case f.Project.Header != nil:
		f.Project.Header.Comment = comment
	default:
		f.Project.Header = a2l.NewHeader(comment)
	}
}
