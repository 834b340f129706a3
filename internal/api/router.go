package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *docservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	uh := NewUploadHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Document lifecycle.
	r.Get("/document", h.Status)
	r.Post("/document/load", h.Load)
	r.Get("/document/warnings", h.Warnings)
	r.Put("/document/metadata", h.UpdateMetadata)
	r.Get("/document/export", h.Export)
	r.Post("/document/save", h.Save)

	// Entities and tree.
	r.Get("/entities", h.ListEntities)
	r.Post("/entities/rename", h.Rename)
	r.Put("/modules/{name}/description", h.SetModuleDescription)
	r.Get("/tree", h.Tree)

	// Typed records.
	r.Get("/measurements/{name}", h.GetMeasurement)
	r.Put("/measurements/{name}", h.UpdateMeasurement)
	r.Get("/characteristics/{name}", h.GetCharacteristic)
	r.Put("/characteristics/{name}", h.UpdateCharacteristic)
	r.Get("/axis-pts/{name}", h.GetAxisPts)
	r.Put("/axis-pts/{name}", h.UpdateAxisPts)

	// Symbols.
	r.Post("/symbols/read", h.ReadSymbols)
	r.Post("/symbols/upload", uh.Symbols)
	r.Post("/symbols/import", h.ImportSymbols)

	// Workspace.
	r.Get("/files", h.ListFiles)
	r.Get("/history", h.History)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
