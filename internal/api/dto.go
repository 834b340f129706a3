package api

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/history"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
)

// LoadRequest loads a document from inline text or from a workspace path.
// Exactly one of the two must be set.
type LoadRequest struct {
	Text string `json:"text,omitempty" example:"ASAP2_VERSION 1 71 ..."`
	Path string `json:"path,omitempty" example:"ecu/engine.a2l"`
}

func (r *LoadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Text, validation.When(r.Path == "", validation.Required.Error("text or path is required"))),
		validation.Field(&r.Path, validation.When(r.Text != "", validation.Empty.Error("text and path are exclusive"))),
	)
}

// ProjectMetadataRequest replaces the project name, description and header comment.
type ProjectMetadataRequest struct {
	ProjectName           string  `json:"project_name" example:"Demo" validate:"required"`
	ProjectLongIdentifier string  `json:"project_long_identifier" example:"Demo project"`
	HeaderComment         *string `json:"header_comment" example:"Bench ECU"`
}

func (r *ProjectMetadataRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProjectName, validation.Required),
	)
}

// SaveRequest writes the document to a workspace path.
type SaveRequest struct {
	Path string `json:"path" example:"ecu/engine.a2l" validate:"required"`
}

func (r *SaveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
	)
}

// RenameRequest renames an entity.
type RenameRequest struct {
	Kind    models.EntityKind `json:"kind" example:"Measurement" validate:"required"`
	OldName string            `json:"old_name" example:"EngineSpeed" validate:"required"`
	NewName string            `json:"new_name" example:"RPM" validate:"required"`
}

func (r *RenameRequest) Validate() error {
	kinds := make([]any, len(models.EntityKinds))
	for i, k := range models.EntityKinds {
		kinds[i] = k
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind, validation.Required, validation.In(kinds...)),
		validation.Field(&r.OldName, validation.Required),
		validation.Field(&r.NewName, validation.Required),
	)
}

// DescriptionRequest sets a module's long identifier.
type DescriptionRequest struct {
	Text string `json:"text" example:"Engine control"`
}

func (r *DescriptionRequest) Validate() error { return nil }

// MeasurementRequest is the full replacement payload of a measurement.
type MeasurementRequest models.MeasurementData

func (r *MeasurementRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Name, validation.Required))
}

// CharacteristicRequest is the full replacement payload of a characteristic.
type CharacteristicRequest models.CharacteristicData

func (r *CharacteristicRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Name, validation.Required))
}

// AxisPtsRequest is the full replacement payload of an axis-points record.
type AxisPtsRequest models.AxisPtsData

func (r *AxisPtsRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Name, validation.Required))
}

// SymbolReadRequest reads the symbol table of a workspace ELF file.
type SymbolReadRequest struct {
	Path  string   `json:"path" example:"build/firmware.elf" validate:"required"`
	Match string   `json:"match,omitempty" example:"^g_"`
	Types []string `json:"types,omitempty" example:"OBJECT"`
}

func (r *SymbolReadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Match, validation.By(validRegexp)),
	)
}

// ImportRequest appends one measurement per symbol. A nil module targets the
// first module.
type ImportRequest struct {
	Module  *string          `json:"module"`
	Symbols []symbols.Symbol `json:"symbols" validate:"required"`
}

func (r *ImportRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Symbols, validation.Each(validation.By(namedSymbol))),
	)
}

func validRegexp(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	_, err := regexp.Compile(s)
	return err
}

func namedSymbol(v any) error {
	if s, ok := v.(symbols.Symbol); ok && s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// compileMatch compiles a pattern already checked by validRegexp.
func compileMatch(s string) *regexp.Regexp {
	if s == "" {
		return nil
	}
	return regexp.MustCompile(s)
}

// headerRevision carries the document revision on export responses.
const headerRevision = "X-Document-Revision"

// SymbolListResponse wraps decoded symbols.
type SymbolListResponse struct {
	Symbols []symbols.Symbol `json:"symbols" validate:"required"`
}

// FileListResponse wraps workspace files.
type FileListResponse struct {
	Files []models.FileInfo `json:"files" validate:"required"`
}

// HistoryResponse wraps paginated history entries.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries" validate:"required"`
	Total   int             `json:"total" example:"42" validate:"required"`
}

// EntityListResponse wraps the flattened entity list.
type EntityListResponse struct {
	Entities []models.Entity `json:"entities" validate:"required"`
}
