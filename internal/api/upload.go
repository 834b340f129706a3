package api

import (
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
)

const maxUploadBytes = 64 << 20 // 64 MB

// UploadHandler accepts ELF images and returns their symbol tables.
// Uploads are decoded in memory and never written to the workspace.
type UploadHandler struct {
	svc *docservice.Service
}

// NewUploadHandler creates a handler backed by svc.
func NewUploadHandler(svc *docservice.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Symbols handles POST /api/symbols/upload (multipart/form-data, field "file").
// Optional form fields: "match" (regular expression on the name) and "type"
// (repeatable symbol type filter).
func (h *UploadHandler) Symbols(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	var re *regexp.Regexp
	if m := r.FormValue("match"); m != "" {
		if re, err = regexp.Compile(m); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	syms, err := h.svc.ParseSymbols(data)
	if err != nil {
		writeError(w, "upload symbols", err)
		return
	}
	slog.Debug("symbols uploaded",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
		slog.Int("count", len(syms)))

	writeJSON(w, http.StatusOK, SymbolListResponse{
		Symbols: symbols.Filter(syms, re, r.MultipartForm.Value["type"]...),
	})
}
