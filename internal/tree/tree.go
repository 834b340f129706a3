// Package tree projects a loaded document into the module, section and item
// hierarchy shown by clients. The tree is rebuilt from scratch on every call.
package tree

import (
	"strconv"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
)

type Tree struct {
	Modules []ModuleView `json:"modules"`
}

type ModuleView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	LongIdentifier string    `json:"long_identifier"`
	Sections       []Section `json:"sections"`
}

type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is one record. Its ID is "{module}::{kind}::{name}" for named records
// and "{module}::{kind}::{index}" for positional ones, so it changes whenever
// the module or the record is renamed.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description *string  `json:"description"`
	Details     []Detail `json:"details"`
}

// Build projects every module of f in document order.
func Build(f *a2l.File) Tree {
	t := Tree{Modules: make([]ModuleView, 0, len(f.Project.Module))}
	for _, m := range f.Project.Module {
		t.Modules = append(t.Modules, buildModule(m))
	}
	return t
}

type builder struct {
	module   string
	sections []Section
}

func buildModule(m *a2l.Module) ModuleView {
	b := &builder{module: m.Name, sections: []Section{}}

	listSection(b, "Measurements", "Measurement", m.Measurement)
	listSection(b, "Characteristics", "Characteristic", m.Characteristic)
	listSection(b, "Axis Points", "AxisPts", m.AxisPts)
	listSection(b, "Compu Methods", "CompuMethod", m.CompuMethod)
	listSection(b, "Compu Tables", "CompuTab", m.CompuTab)
	listSection(b, "Compu VTabs", "CompuVtab", m.CompuVtab)
	listSection(b, "Compu VTab Ranges", "CompuVtabRange", m.CompuVtabRange)
	listSection(b, "Record Layouts", "RecordLayout", m.RecordLayout)
	listSection(b, "Functions", "Function", m.Function)
	listSection(b, "Groups", "Group", m.Group)
	listSection(b, "Units", "Unit", m.Unit)
	listSection(b, "Frames", "Frame", m.Frame)
	listSection(b, "Blobs", "Blob", m.Blob)
	listSection(b, "Instances", "Instance", m.Instance)
	listSection(b, "Transformers", "Transformer", m.Transformer)
	listSection(b, "Typedef Axis", "TypedefAxis", m.TypedefAxis)
	listSection(b, "Typedef Blob", "TypedefBlob", m.TypedefBlob)
	listSection(b, "Typedef Characteristic", "TypedefCharacteristic", m.TypedefCharacteristic)
	listSection(b, "Typedef Measurement", "TypedefMeasurement", m.TypedefMeasurement)
	listSection(b, "Typedef Structure", "TypedefStructure", m.TypedefStructure)
	optionalSection(b, "Mod Common", "ModCommon", m.ModCommon)
	optionalSection(b, "Mod Par", "ModPar", m.ModPar)
	optionalSection(b, "Variant Coding", "VariantCoding", m.VariantCoding)
	optionalSection(b, "A2ML", "A2ML", m.A2ml)
	vecSection(b, "IF_DATA", "IfData", m.IfData)
	vecSection(b, "User Rights", "UserRights", m.UserRights)

	return ModuleView{
		ID:             m.Name,
		Name:           m.Name,
		LongIdentifier: m.LongIdentifier,
		Sections:       b.sections,
	}
}

func (b *builder) id(kind string) string { return b.module + "::" + kind }

func (b *builder) item(kind, discriminator, name string, r a2l.Record) Item {
	desc, details := Project(r)
	return Item{
		ID:          b.id(kind) + "::" + discriminator,
		Name:        name,
		Kind:        kind,
		Description: desc,
		Details:     details,
	}
}

// listSection emits one item per named record, keyed by name.
func listSection[T a2l.NamedRecord](b *builder, title, kind string, records []T) {
	if len(records) == 0 {
		return
	}
	s := Section{ID: b.id(kind), Title: title, Items: make([]Item, 0, len(records))}
	for _, r := range records {
		s.Items = append(s.Items, b.item(kind, r.ObjectName(), r.ObjectName(), r))
	}
	b.sections = append(b.sections, s)
}

// optionalSection emits a single item named after the section when r is set.
func optionalSection[T any, P interface {
	*T
	a2l.Record
}](b *builder, title, kind string, r P) {
	if r == nil {
		return
	}
	b.sections = append(b.sections, Section{
		ID:    b.id(kind),
		Title: title,
		Items: []Item{b.item(kind, "0", title, r)},
	})
}

// vecSection emits one item per unnamed record, keyed by position.
func vecSection[T a2l.Record](b *builder, title, kind string, records []T) {
	if len(records) == 0 {
		return
	}
	s := Section{ID: b.id(kind), Title: title, Items: make([]Item, 0, len(records))}
	for i, r := range records {
		idx := strconv.Itoa(i)
		s.Items = append(s.Items, b.item(kind, idx, title+" "+idx, r))
	}
	b.sections = append(b.sections, s)
}
