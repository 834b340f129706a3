// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the document editor as tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/symbols"
)

const contractURI = "a2l-forge://a2l-format"

// Server wraps the MCP server with document tools.
type Server struct {
	mcp      *server.MCPServer
	svc      *docservice.Service
	handlers map[string]server.ToolHandlerFunc

	// checkHost vets every host load_a2l_from_url connects to.
	checkHost func(host string) error
}

// Option configures a Server.
type Option func(*Server)

// AllowPrivateHosts lets load_a2l_from_url fetch from loopback and
// metadata addresses, for setups that serve documents from localhost.
func AllowPrivateHosts() Option {
	return func(s *Server) {
		s.checkHost = func(string) error { return nil }
	}
}

// New creates a new MCP server with all document tools registered.
func New(svc *docservice.Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		handlers:  make(map[string]server.ToolHandlerFunc),
		checkHost: checkBlockedHost,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(
		"A2L Forge",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.addTool(mcp.NewTool("load_a2l",
		mcp.WithDescription("Load an A2L document from inline text or from a workspace path. "+
			"Replaces the current document. Exactly one of text or path must be given."),
		mcp.WithString("text", mcp.Description("Full A2L document text")),
		mcp.WithString("path", mcp.Description("Workspace-relative path (e.g. ecu/engine.a2l)")),
	), s.loadA2L)

	s.addTool(mcp.NewTool("load_a2l_from_url",
		mcp.WithDescription("Download an A2L document over http(s) or decode a base64 data URI, then load it."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or data:...;base64, URI")),
		mcp.WithString("save_as", mcp.Description("Optional workspace path to save the loaded document to")),
	), s.loadFromURL)

	s.addTool(mcp.NewTool("document_status",
		mcp.WithDescription("Report whether a document is loaded, its origin path, checksum, revision and parse warnings."),
	), s.documentStatus)

	s.addTool(mcp.NewTool("update_project_metadata",
		mcp.WithDescription("Set the project name and description. A blank header_comment removes the HEADER block."),
		mcp.WithString("project_name", mcp.Required()),
		mcp.WithString("project_long_identifier"),
		mcp.WithString("header_comment"),
	), s.updateProjectMetadata)

	s.addTool(mcp.NewTool("export_a2l",
		mcp.WithDescription("Serialize the current document to A2L text."),
	), s.exportA2L)

	s.addTool(mcp.NewTool("save_a2l",
		mcp.WithDescription("Write the current document to a workspace path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Workspace-relative destination path")),
	), s.saveA2L)

	s.addTool(mcp.NewTool("list_entities",
		mcp.WithDescription("List modules, measurements, characteristics and axis points in document order."),
	), s.listEntities)

	s.addTool(mcp.NewTool("list_tree",
		mcp.WithDescription("Project every module into sections and items with display details."),
	), s.listTree)

	s.addTool(mcp.NewTool("rename_entity",
		mcp.WithDescription("Rename every entity of the given kind called old_name, in every module."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum("Module", "Measurement", "Characteristic", "AxisPts")),
		mcp.WithString("old_name", mcp.Required()),
		mcp.WithString("new_name", mcp.Required()),
	), s.renameEntity)

	s.addTool(mcp.NewTool("set_module_description",
		mcp.WithDescription("Set the long identifier of a module."),
		mcp.WithString("module", mcp.Required()),
		mcp.WithString("text", mcp.Required()),
	), s.setModuleDescription)

	for _, kind := range []string{"measurement", "characteristic", "axis_pts"} {
		s.addTool(mcp.NewTool("get_"+kind,
			mcp.WithDescription("Read the editable fields of a "+kind+" by name (first match across modules)."),
			mcp.WithString("name", mcp.Required()),
		), s.getRecord(kind))
		s.addTool(mcp.NewTool("update_"+kind,
			mcp.WithDescription("Replace every editable field of a "+kind+". Call get_"+kind+
				" first and send the modified object back as data. Addresses are hex strings."),
			mcp.WithString("name", mcp.Required(), mcp.Description("Current name")),
			mcp.WithObject("data", mcp.Required(), mcp.Description("Full record payload as returned by get_"+kind)),
		), s.updateRecord(kind))
	}

	s.addTool(mcp.NewTool("read_elf_symbols",
		mcp.WithDescription("Decode the symbol table of an ELF file in the workspace."),
		mcp.WithString("path", mcp.Required()),
		mcp.WithString("match", mcp.Description("Optional regular expression on symbol names")),
		mcp.WithString("type", mcp.Description("Optional symbol type filter (e.g. OBJECT)")),
	), s.readSymbols)

	s.addTool(mcp.NewTool("import_symbols",
		mcp.WithDescription("Append one UBYTE measurement per ELF symbol to a module (default: first module). "+
			"Existing measurements are never replaced."),
		mcp.WithString("elf_path", mcp.Required(), mcp.Description("Workspace path of the ELF file")),
		mcp.WithString("module", mcp.Description("Target module name")),
		mcp.WithString("match", mcp.Description("Optional regular expression on symbol names")),
		mcp.WithString("type", mcp.Description("Optional symbol type filter (e.g. OBJECT)")),
	), s.importSymbols)

	s.addTool(mcp.NewTool("list_files",
		mcp.WithDescription("List A2L files in the workspace."),
	), s.listFiles)

	s.addTool(mcp.NewTool("document_history",
		mcp.WithDescription("List recorded loads, saves and imports, newest first."),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset"),
		mcp.WithString("path", mcp.Description("Only entries for this workspace path")),
	), s.documentHistory)

	s.addTool(mcp.NewTool("get_a2l_contract",
		mcp.WithDescription("Returns the supported A2L subset and editing conventions. "+
			"Call this before composing or editing documents."),
	), s.getContract)

	// Resource: format contract.
	s.mcp.AddResource(
		mcp.NewResource(contractURI, "A2L Format Contract",
			mcp.WithResourceDescription("Supported A2L keywords and editing conventions."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) loadA2L(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	path := req.GetString("path", "")
	if (text == "") == (path == "") {
		return mcp.NewToolResultError("exactly one of text or path is required"), nil
	}
	var (
		md  models.Metadata
		err error
	)
	if path != "" {
		md, err = s.svc.LoadPath(ctx, path)
	} else {
		md, err = s.svc.LoadText(ctx, text, "mcp")
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(md)
}

func (s *Server) documentStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.svc.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := map[string]any{"status": st}
	if st.Loaded {
		if warnings, err := s.svc.Warnings(ctx); err == nil {
			out["warnings"] = warnings
		}
	}
	return jsonResult(out)
}

func (s *Server) updateProjectMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("project_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var comment *string
	if c, err := req.RequireString("header_comment"); err == nil {
		comment = &c
	}
	md, err := s.svc.UpdateProjectMetadata(ctx, name, req.GetString("project_long_identifier", ""), comment)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(md)
}

func (s *Server) exportA2L(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, _, err := s.svc.Export(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) saveA2L(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(ctx, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", path)), nil
}

func (s *Server) listEntities(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entities, err := s.svc.ListEntities(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(entities)
}

func (s *Server) listTree(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := s.svc.Tree(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

func (s *Server) renameEntity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Kind    models.EntityKind `json:"kind"`
		OldName string            `json:"old_name"`
		NewName string            `json:"new_name"`
	}
	if err := req.BindArguments(&args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Rename(ctx, args.Kind, args.OldName, args.NewName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) setModuleDescription(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module, err := req.RequireString("module")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.SetModuleDescription(ctx, module, req.GetString("text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getRecord(kind string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var data any
		switch kind {
		case "measurement":
			data, err = s.svc.GetMeasurement(ctx, name)
		case "characteristic":
			data, err = s.svc.GetCharacteristic(ctx, name)
		default:
			data, err = s.svc.GetAxisPts(ctx, name)
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(data)
	}
}

// recordArgs is the argument shape of the update_* tools.
type recordArgs[T any] struct {
	Name string `json:"name"`
	Data T      `json:"data"`
}

func bindRecord[T any](req mcp.CallToolRequest) (string, T, error) {
	var args recordArgs[T]
	if err := req.BindArguments(&args); err != nil {
		return "", args.Data, err
	}
	if args.Name == "" {
		return "", args.Data, fmt.Errorf("name is required")
	}
	return args.Name, args.Data, nil
}

func (s *Server) updateRecord(kind string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			name string
			err  error
		)
		switch kind {
		case "measurement":
			var data models.MeasurementData
			if name, data, err = bindRecord[models.MeasurementData](req); err == nil {
				err = s.svc.UpdateMeasurement(ctx, name, data)
			}
		case "characteristic":
			var data models.CharacteristicData
			if name, data, err = bindRecord[models.CharacteristicData](req); err == nil {
				err = s.svc.UpdateCharacteristic(ctx, name, data)
			}
		default:
			var data models.AxisPtsData
			if name, data, err = bindRecord[models.AxisPtsData](req); err == nil {
				err = s.svc.UpdateAxisPts(ctx, name, data)
			}
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("updated %s: %s", kind, name)), nil
	}
}

// filteredSymbols reads the ELF at path and applies the optional match and
// type arguments.
func (s *Server) filteredSymbols(ctx context.Context, req mcp.CallToolRequest, path string) ([]symbols.Symbol, error) {
	var re *regexp.Regexp
	if m := req.GetString("match", ""); m != "" {
		var err error
		if re, err = regexp.Compile(m); err != nil {
			return nil, fmt.Errorf("invalid match: %w", err)
		}
	}
	syms, err := s.svc.ReadSymbols(ctx, path)
	if err != nil {
		return nil, err
	}
	var types []string
	if t := req.GetString("type", ""); t != "" {
		types = append(types, t)
	}
	return symbols.Filter(syms, re, types...), nil
}

func (s *Server) readSymbols(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	syms, err := s.filteredSymbols(ctx, req, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(syms)
}

func (s *Server) importSymbols(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("elf_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	syms, err := s.filteredSymbols(ctx, req, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var module *string
	if m, err := req.RequireString("module"); err == nil && m != "" {
		module = &m
	}
	res, err := s.svc.ImportSymbols(ctx, module, syms)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"imported": len(syms), "result": res})
}

func (s *Server) listFiles(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.svc.Files(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(files)
}

func (s *Server) documentHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 50)
	offset := req.GetInt("offset", 0)
	entries, total, err := s.svc.History(ctx, limit, offset, req.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"entries": entries, "total": total})
}

func (s *Server) getContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     FormatContract,
		},
	}, nil
}
