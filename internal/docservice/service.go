// Package docservice is the request surface over the shared document: every
// load, query and mutation goes through here.
package docservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sync/atomic"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/docstate"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/entity"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/history"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/records"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/sse"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/tree"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/watch"
)

// Publisher receives change notifications. *sse.Broker implements it.
type Publisher interface {
	Publish(event sse.Event)
	PublishDocumentEvent(kind string, data any)
}

// Status describes the loaded document.
type Status struct {
	Loaded   bool   `json:"loaded"`
	Path     string `json:"path,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	Revision uint64 `json:"revision"`
	Stale    bool   `json:"stale"`
}

// Service coordinates the shared state, the workspace and the history log.
// history and events may be nil.
type Service struct {
	state   *docstate.State
	store   storage.Provider
	history history.Log
	events  Publisher
	logger  *slog.Logger

	stale atomic.Bool
}

// NewService creates a new document service.
func NewService(state *docstate.State, store storage.Provider, hist history.Log, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{state: state, store: store, history: hist, events: events, logger: logger}
}

// LoadText parses text and makes it the current document. source labels the
// origin in the history log.
func (s *Service) LoadText(ctx context.Context, text, source string) (models.Metadata, error) {
	if source == "" {
		source = "inline"
	}
	return s.load(ctx, []byte(text), "", source)
}

// LoadPath reads a workspace file and makes it the current document.
func (s *Service) LoadPath(ctx context.Context, p string) (models.Metadata, error) {
	p = cleanPath(p)
	data, err := s.store.Read(p)
	if err != nil {
		return models.Metadata{}, err
	}
	return s.load(ctx, data, p, p)
}

func (s *Service) load(ctx context.Context, data []byte, p, source string) (models.Metadata, error) {
	f, warnings, err := a2l.Load(string(data))
	if err != nil {
		return models.Metadata{}, err
	}
	doc := &docstate.Document{File: f, Warnings: warnings, Path: p}
	if p != "" {
		doc.Checksum = storage.Checksum(data)
	}
	if err := s.state.Replace(ctx, doc); err != nil {
		return models.Metadata{}, err
	}
	s.stale.Store(false)

	md := entity.Metadata(f, len(warnings))
	s.logger.Info("document loaded",
		slog.String("source", source),
		slog.String("project", md.ProjectName),
		slog.Int("modules", len(md.ModuleNames)),
		slog.Int("warnings", len(warnings)))
	for _, w := range warnings {
		s.logger.Debug("document warning", slog.Int("line", w.Line), slog.String("message", w.Message))
	}

	s.record(history.Entry{
		Action:   history.ActionLoaded,
		Path:     p,
		Project:  md.ProjectName,
		Checksum: storage.Checksum(data),
		Detail:   source,
	})
	s.publish(sse.DocumentLoaded, md)
	return md, nil
}

// Warnings returns the parse warnings of the current document.
func (s *Service) Warnings(ctx context.Context) ([]a2l.Warning, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) ([]a2l.Warning, error) {
		return nonNilSlice(d.Warnings), nil
	})
}

// Status reports whether a document is loaded and where it came from.
func (s *Service) Status(ctx context.Context) (Status, error) {
	st, err := docstate.Query(ctx, s.state, func(d *docstate.Document) (Status, error) {
		return Status{Loaded: true, Path: d.Path, Checksum: d.Checksum, Revision: d.Revision}, nil
	})
	if err != nil {
		if isNoDocument(err) {
			return Status{}, nil
		}
		return Status{}, err
	}
	st.Stale = s.stale.Load()
	return st, nil
}

// UpdateProjectMetadata sets the project name, description and header comment.
func (s *Service) UpdateProjectMetadata(ctx context.Context, name, longIdentifier string, headerComment *string) (models.Metadata, error) {
	md, err := docstate.Mutate(ctx, s.state, func(d *docstate.Document) (models.Metadata, error) {
		entity.UpdateProjectMetadata(d.File, name, longIdentifier, headerComment)
		return entity.Metadata(d.File, 0), nil
	})
	if err != nil {
		return models.Metadata{}, err
	}
	s.changed("project metadata updated", slog.String("project", name))
	return md, nil
}

// Export serializes the current document and returns it with its checksum.
func (s *Service) Export(ctx context.Context) (string, string, error) {
	text, err := docstate.Query(ctx, s.state, func(d *docstate.Document) (string, error) {
		return d.File.Write(), nil
	})
	if err != nil {
		return "", "", err
	}
	return text, storage.Checksum([]byte(text)), nil
}

// Save writes the current document to a workspace path. The text is fully
// serialized before the write, so a failed write leaves the document as is.
func (s *Service) Save(ctx context.Context, p string) error {
	p = cleanPath(p)
	var project, sum string
	err := s.state.Read(ctx, func(d *docstate.Document) error {
		data := []byte(d.File.Write())
		if err := s.store.Write(p, data); err != nil {
			return err
		}
		d.Path = p
		d.Checksum = storage.Checksum(data)
		project, sum = d.File.Project.Name, d.Checksum
		return nil
	})
	if err != nil {
		return err
	}
	s.stale.Store(false)
	s.logger.Info("document saved", slog.String("path", p))
	s.record(history.Entry{Action: history.ActionSaved, Path: p, Project: project, Checksum: sum})
	s.publish(sse.DocumentSaved, map[string]string{"path": p, "checksum": sum})
	return nil
}

// ListEntities returns the flattened module and core record listing.
func (s *Service) ListEntities(ctx context.Context) ([]models.Entity, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) ([]models.Entity, error) {
		return entity.List(d.File), nil
	})
}

// Tree projects the current document.
func (s *Service) Tree(ctx context.Context) (tree.Tree, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) (tree.Tree, error) {
		return tree.Build(d.File), nil
	})
}

// Rename renames every entity of kind called oldName. No match is not an error.
func (s *Service) Rename(ctx context.Context, kind models.EntityKind, oldName, newName string) (models.UpdateResult, error) {
	var n int
	res, err := docstate.Mutate(ctx, s.state, func(d *docstate.Document) (models.UpdateResult, error) {
		n = entity.Rename(d.File, kind, oldName, newName)
		return entity.Result(d.File), nil
	})
	if err != nil {
		return models.UpdateResult{}, err
	}
	s.changed("entity renamed",
		slog.String("kind", string(kind)),
		slog.String("from", oldName),
		slog.String("to", newName),
		slog.Int("matches", n))
	return res, nil
}

// SetModuleDescription sets the long identifier of a module. An unknown
// module is not an error.
func (s *Service) SetModuleDescription(ctx context.Context, module, text string) (models.UpdateResult, error) {
	res, err := docstate.Mutate(ctx, s.state, func(d *docstate.Document) (models.UpdateResult, error) {
		entity.SetModuleLongIdentifier(d.File, module, text)
		return entity.Result(d.File), nil
	})
	if err != nil {
		return models.UpdateResult{}, err
	}
	s.changed("module description updated", slog.String("module", module))
	return res, nil
}

func (s *Service) GetMeasurement(ctx context.Context, name string) (models.MeasurementData, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) (models.MeasurementData, error) {
		return records.GetMeasurement(d.File, name)
	})
}

func (s *Service) UpdateMeasurement(ctx context.Context, name string, data models.MeasurementData) error {
	err := s.state.Write(ctx, func(d *docstate.Document) error {
		return records.UpdateMeasurement(d.File, name, data)
	})
	if err != nil {
		return err
	}
	s.changed("measurement updated", slog.String("name", name))
	return nil
}

func (s *Service) GetCharacteristic(ctx context.Context, name string) (models.CharacteristicData, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) (models.CharacteristicData, error) {
		return records.GetCharacteristic(d.File, name)
	})
}

func (s *Service) UpdateCharacteristic(ctx context.Context, name string, data models.CharacteristicData) error {
	err := s.state.Write(ctx, func(d *docstate.Document) error {
		return records.UpdateCharacteristic(d.File, name, data)
	})
	if err != nil {
		return err
	}
	s.changed("characteristic updated", slog.String("name", name))
	return nil
}

func (s *Service) GetAxisPts(ctx context.Context, name string) (models.AxisPtsData, error) {
	return docstate.Query(ctx, s.state, func(d *docstate.Document) (models.AxisPtsData, error) {
		return records.GetAxisPts(d.File, name)
	})
}

func (s *Service) UpdateAxisPts(ctx context.Context, name string, data models.AxisPtsData) error {
	err := s.state.Write(ctx, func(d *docstate.Document) error {
		return records.UpdateAxisPts(d.File, name, data)
	})
	if err != nil {
		return err
	}
	s.changed("axis points updated", slog.String("name", name))
	return nil
}

// ReadSymbols decodes the ELF symbol table of a workspace file. It does not
// need a loaded document.
func (s *Service) ReadSymbols(_ context.Context, p string) ([]symbols.Symbol, error) {
	data, err := s.store.Read(cleanPath(p))
	if err != nil {
		return nil, err
	}
	return s.ParseSymbols(data)
}

// ParseSymbols decodes the symbol table of an uploaded ELF image.
func (s *Service) ParseSymbols(data []byte) ([]symbols.Symbol, error) {
	syms, err := symbols.ReadELF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("symbols read", slog.Int("count", len(syms)))
	return syms, nil
}

// ImportSymbols appends one measurement per symbol to module, or to the first
// module when module is nil.
func (s *Service) ImportSymbols(ctx context.Context, module *string, syms []symbols.Symbol) (models.UpdateResult, error) {
	var target, project string
	res, err := docstate.Mutate(ctx, s.state, func(d *docstate.Document) (models.UpdateResult, error) {
		if _, err := symbols.Import(d.File, module, syms); err != nil {
			return models.UpdateResult{}, err
		}
		target, project = d.Path, d.File.Project.Name
		return entity.Result(d.File), nil
	})
	if err != nil {
		return models.UpdateResult{}, err
	}
	dest := "first module"
	if module != nil {
		dest = "module " + *module
	}
	s.record(history.Entry{
		Action:  history.ActionImported,
		Path:    target,
		Project: project,
		Detail:  fmt.Sprintf("%d symbols into %s", len(syms), dest),
	})
	s.changed("symbols imported", slog.Int("count", len(syms)), slog.String("target", dest))
	return res, nil
}

// Files lists the A2L files in the workspace.
func (s *Service) Files(_ context.Context) ([]models.FileInfo, error) {
	return s.store.List("", ".a2l")
}

// History lists logged events newest first. It returns an empty list when no
// history log is configured.
func (s *Service) History(_ context.Context, limit, offset int, p string) ([]history.Entry, int, error) {
	if s.history == nil {
		return []history.Entry{}, 0, nil
	}
	return s.history.List(limit, offset, p)
}

// HandleFileChange is the watch.Callback of the workspace watcher. A change
// to the open document's file that does not match the last load or save
// marks the document stale.
func (s *Service) HandleFileChange(c watch.Change) {
	if s.events != nil {
		s.events.Publish(sse.Event{Type: "files.changed", Data: c})
	}
	ctx := context.Background()
	st, err := docstate.Query(ctx, s.state, func(d *docstate.Document) (Status, error) {
		return Status{Path: d.Path, Checksum: d.Checksum}, nil
	})
	if err != nil || st.Path == "" || st.Path != c.Path || st.Checksum == c.Checksum {
		return
	}
	if s.stale.CompareAndSwap(false, true) {
		s.logger.Warn("document changed on disk", slog.String("path", c.Path), slog.String("kind", string(c.Kind)))
		s.publish(sse.DocumentStale, c)
	}
}

func (s *Service) changed(msg string, attrs ...any) {
	s.logger.Debug(msg, attrs...)
	s.publish(sse.DocumentChanged, map[string]string{"reason": msg})
}

func (s *Service) publish(kind string, data any) {
	if s.events != nil {
		s.events.PublishDocumentEvent(kind, data)
	}
}

func (s *Service) record(e history.Entry) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(e); err != nil {
		s.logger.Warn("history: record failed", slog.String("action", string(e.Action)), slog.String("error", err.Error()))
	}
}

// cleanPath normalizes a workspace path to the slash form the watcher reports.
func cleanPath(p string) string {
	return path.Clean("/" + filepath.ToSlash(p))[1:]
}

func isNoDocument(err error) bool {
	return errors.Is(err, apperr.ErrNoDocument)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
