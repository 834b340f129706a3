package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// recordName extracts the {name} parameter. Supports encoded characters
// from OpenAPI clients (e.g. Map%5B0%5D).
func recordName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Status handles GET /api/document.
//
//	@Summary		Report whether a document is loaded and where it came from
//	@Tags			document
//	@Produce		json
//	@Success		200	{object}	docservice.Status
//	@Security		BearerAuth
//	@Router			/document [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Status(r.Context())
	if err != nil {
		writeError(w, "status", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Load handles POST /api/document/load.
//
//	@Summary		Load a document from text or a workspace path
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoadRequest	true	"Document source"
//	@Success		200		{object}	models.Metadata
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document/load [post]
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var (
		md  models.Metadata
		err error
	)
	if req.Path != "" {
		md, err = h.svc.LoadPath(r.Context(), req.Path)
	} else {
		md, err = h.svc.LoadText(r.Context(), req.Text, "http")
	}
	if err != nil {
		writeError(w, "load", err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// Warnings handles GET /api/document/warnings.
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.svc.Warnings(r.Context())
	if err != nil {
		writeError(w, "warnings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

// UpdateMetadata handles PUT /api/document/metadata.
//
//	@Summary		Update project name, description and header comment
//	@Tags			document
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ProjectMetadataRequest	true	"Project metadata"
//	@Success		200		{object}	models.Metadata
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document/metadata [put]
func (h *Handler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req ProjectMetadataRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	md, err := h.svc.UpdateProjectMetadata(r.Context(), req.ProjectName, req.ProjectLongIdentifier, req.HeaderComment)
	if err != nil {
		writeError(w, "update metadata", err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// Export handles GET /api/document/export.
//
//	@Summary		Serialize the document
//	@Tags			document
//	@Produce		plain
//	@Param			If-None-Match	header	string	false	"Checksum of a previous export"
//	@Success		200	{string}	string
//	@Success		304	"Unchanged since the given checksum"
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	text, sum, err := h.svc.Export(r.Context())
	if err != nil {
		writeError(w, "export", err)
		return
	}
	etag := `"` + sum + `"`
	w.Header().Set("ETag", etag)
	if st, err := h.svc.Status(r.Context()); err == nil {
		w.Header().Set(headerRevision, strconv.FormatUint(st.Revision, 10))
	}
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == sum {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// Save handles POST /api/document/save.
//
//	@Summary		Write the document to a workspace path
//	@Tags			document
//	@Accept			json
//	@Param			body	body	SaveRequest	true	"Destination"
//	@Success		204		"Saved"
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/document/save [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Save(r.Context(), req.Path); err != nil {
		writeError(w, "save", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEntities handles GET /api/entities.
//
//	@Summary		List modules, measurements, characteristics and axis points
//	@Tags			entities
//	@Produce		json
//	@Success		200	{object}	EntityListResponse
//	@Security		BearerAuth
//	@Router			/entities [get]
func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	entities, err := h.svc.ListEntities(r.Context())
	if err != nil {
		writeError(w, "list entities", err)
		return
	}
	writeJSON(w, http.StatusOK, EntityListResponse{Entities: entities})
}

// Rename handles POST /api/entities/rename.
//
//	@Summary		Rename every entity of a kind with the given name
//	@Tags			entities
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenameRequest	true	"Rename"
//	@Success		200		{object}	models.UpdateResult
//	@Security		BearerAuth
//	@Router			/entities/rename [post]
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Rename(r.Context(), req.Kind, req.OldName, req.NewName)
	if err != nil {
		writeError(w, "rename", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SetModuleDescription handles PUT /api/modules/{name}/description.
func (h *Handler) SetModuleDescription(w http.ResponseWriter, r *http.Request) {
	var req DescriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SetModuleDescription(r.Context(), recordName(r), req.Text)
	if err != nil {
		writeError(w, "set module description", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Tree handles GET /api/tree.
//
//	@Summary		Project the document into modules, sections and items
//	@Tags			tree
//	@Produce		json
//	@Success		200	{object}	tree.Tree
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Tree(r.Context())
	if err != nil {
		writeError(w, "tree", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) GetMeasurement(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMeasurement(r.Context(), recordName(r))
	if err != nil {
		writeError(w, "get measurement", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// UpdateMeasurement handles PUT /api/measurements/{name}.
//
//	@Summary		Replace every editable field of a measurement
//	@Tags			records
//	@Accept			json
//	@Param			name	path	string				true	"Measurement name"
//	@Param			body	body	MeasurementRequest	true	"Measurement"
//	@Success		204		"Updated"
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/measurements/{name} [put]
func (h *Handler) UpdateMeasurement(w http.ResponseWriter, r *http.Request) {
	var req MeasurementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateMeasurement(r.Context(), recordName(r), models.MeasurementData(req)); err != nil {
		writeError(w, "update measurement", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetCharacteristic(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCharacteristic(r.Context(), recordName(r))
	if err != nil {
		writeError(w, "get characteristic", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCharacteristic(w http.ResponseWriter, r *http.Request) {
	var req CharacteristicRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateCharacteristic(r.Context(), recordName(r), models.CharacteristicData(req)); err != nil {
		writeError(w, "update characteristic", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetAxisPts(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAxisPts(r.Context(), recordName(r))
	if err != nil {
		writeError(w, "get axis points", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) UpdateAxisPts(w http.ResponseWriter, r *http.Request) {
	var req AxisPtsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.UpdateAxisPts(r.Context(), recordName(r), models.AxisPtsData(req)); err != nil {
		writeError(w, "update axis points", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReadSymbols handles POST /api/symbols/read.
//
//	@Summary		Decode the symbol table of a workspace ELF file
//	@Tags			symbols
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SymbolReadRequest	true	"ELF path and filters"
//	@Success		200		{object}	SymbolListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/symbols/read [post]
func (h *Handler) ReadSymbols(w http.ResponseWriter, r *http.Request) {
	var req SymbolReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	syms, err := h.svc.ReadSymbols(r.Context(), req.Path)
	if err != nil {
		writeError(w, "read symbols", err)
		return
	}
	writeJSON(w, http.StatusOK, SymbolListResponse{
		Symbols: symbols.Filter(syms, compileMatch(req.Match), req.Types...),
	})
}

// ImportSymbols handles POST /api/symbols/import.
//
//	@Summary		Append one measurement per symbol
//	@Tags			symbols
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	true	"Target module and symbols"
//	@Success		200		{object}	models.UpdateResult
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/symbols/import [post]
func (h *Handler) ImportSymbols(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ImportSymbols(r.Context(), req.Module, req.Symbols)
	if err != nil {
		writeError(w, "import symbols", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListFiles handles GET /api/files.
//
//	@Summary		List A2L files in the workspace
//	@Tags			workspace
//	@Produce		json
//	@Success		200	{object}	FileListResponse
//	@Security		BearerAuth
//	@Router			/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.Files(r.Context())
	if err != nil {
		writeError(w, "list files", err)
		return
	}
	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// History handles GET /api/history.
//
//	@Summary		List document loads, saves and imports
//	@Tags			workspace
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			path	query		string	false	"Filter by workspace path"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	entries, total, err := h.svc.History(r.Context(), limit, offset, q.Get("path"))
	if err != nil {
		writeError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Total: total})
}
