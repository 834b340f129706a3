package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/docstate"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/testutil"
)

func testServer(t *testing.T, opts ...Option) (*Server, *storage.FS) {
	t.Helper()
	_, store := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := docservice.NewService(docstate.New(time.Second), store, db, nil, logger)
	return New(svc, opts...), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	h, ok := srv.handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func loadSample(t *testing.T, srv *Server) {
	t.Helper()
	r := callTool(t, srv, "load_a2l", map[string]any{"text": testutil.SampleA2L})
	if r.IsError {
		t.Fatalf("load failed: %s", resultText(r))
	}
}

func TestToolsRegistered(t *testing.T) {
	srv, _ := testServer(t)
	for _, name := range []string{
		"load_a2l", "load_a2l_from_url", "document_status", "update_project_metadata",
		"export_a2l", "save_a2l", "list_entities", "list_tree", "rename_entity",
		"set_module_description", "get_measurement", "update_measurement",
		"get_characteristic", "update_characteristic", "get_axis_pts", "update_axis_pts",
		"read_elf_symbols", "import_symbols", "list_files", "document_history", "get_a2l_contract",
	} {
		if _, ok := srv.handlers[name]; !ok {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestLoadRequiresExactlyOneSource(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "load_a2l", map[string]any{}); !r.IsError {
		t.Error("expected error without text or path")
	}
	if r := callTool(t, srv, "load_a2l", map[string]any{"text": "x", "path": "y"}); !r.IsError {
		t.Error("expected error with both text and path")
	}
}

func TestNoDocument(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_entities", map[string]any{})
	if !r.IsError || !strings.Contains(resultText(r), "no A2L loaded") {
		t.Errorf("list without document = %q", resultText(r))
	}
}

func TestLoadRenameExport(t *testing.T) {
	srv, _ := testServer(t)
	loadSample(t, srv)

	r := callTool(t, srv, "rename_entity", map[string]any{
		"kind": "Characteristic", "old_name": "IdleTarget", "new_name": "IdleSetpoint",
	})
	if r.IsError {
		t.Fatalf("rename: %s", resultText(r))
	}

	r = callTool(t, srv, "export_a2l", map[string]any{})
	text := resultText(r)
	if !strings.Contains(text, "/begin CHARACTERISTIC IdleSetpoint") {
		t.Errorf("export missing renamed characteristic:\n%s", text)
	}
}

func TestGetAndUpdateMeasurement(t *testing.T) {
	srv, _ := testServer(t)
	loadSample(t, srv)

	r := callTool(t, srv, "get_measurement", map[string]any{"name": "EngineSpeed"})
	if r.IsError {
		t.Fatalf("get: %s", resultText(r))
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(resultText(r)), &data); err != nil {
		t.Fatal(err)
	}
	data["ecu_address"] = "0x1F00"
	data["resolution"] = 2.9

	r = callTool(t, srv, "update_measurement", map[string]any{"name": "EngineSpeed", "data": data})
	if r.IsError {
		t.Fatalf("update: %s", resultText(r))
	}

	r = callTool(t, srv, "get_measurement", map[string]any{"name": "EngineSpeed"})
	text := resultText(r)
	if !strings.Contains(text, `"ecu_address": "0x1F00"`) || !strings.Contains(text, `"resolution": 2`) {
		t.Errorf("update not applied: %s", text)
	}

	data["datatype"] = "NOPE"
	r = callTool(t, srv, "update_measurement", map[string]any{"name": "EngineSpeed", "data": data})
	if !r.IsError || !strings.Contains(resultText(r), "invalid enumeration value") {
		t.Errorf("bad datatype = %q", resultText(r))
	}

	r = callTool(t, srv, "get_axis_pts", map[string]any{"name": "Missing"})
	if !r.IsError {
		t.Error("expected not found")
	}
}

func TestImportSymbolsFromWorkspace(t *testing.T) {
	srv, store := testServer(t)
	loadSample(t, srv)
	img := testutil.ELF(t,
		testutil.ELFSymbol{Name: "cal_gain", Value: 0x8000},
		testutil.ELFSymbol{Name: "tmp", Value: 0x10},
	)
	if err := store.Write("fw.elf", img); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "read_elf_symbols", map[string]any{"path": "fw.elf"})
	if r.IsError || !strings.Contains(resultText(r), `"cal_gain"`) {
		t.Fatalf("read symbols = %s", resultText(r))
	}

	r = callTool(t, srv, "import_symbols", map[string]any{"elf_path": "fw.elf", "match": "^cal_"})
	if r.IsError {
		t.Fatalf("import: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"imported": 1`) {
		t.Errorf("import result = %s", resultText(r))
	}

	r = callTool(t, srv, "import_symbols", map[string]any{"elf_path": "fw.elf", "module": "Nope"})
	if !r.IsError {
		t.Error("expected error for unknown module")
	}

	r = callTool(t, srv, "document_history", map[string]any{"limit": 10})
	if !strings.Contains(resultText(r), `"action": "imported"`) {
		t.Errorf("history = %s", resultText(r))
	}
}

func TestSaveAndListFiles(t *testing.T) {
	srv, _ := testServer(t)
	loadSample(t, srv)

	r := callTool(t, srv, "save_a2l", map[string]any{"path": "ecu.a2l"})
	if r.IsError {
		t.Fatalf("save: %s", resultText(r))
	}
	r = callTool(t, srv, "list_files", map[string]any{})
	if !strings.Contains(resultText(r), `"path": "ecu.a2l"`) {
		t.Errorf("files = %s", resultText(r))
	}
	r = callTool(t, srv, "document_status", map[string]any{})
	if !strings.Contains(resultText(r), `"path": "ecu.a2l"`) {
		t.Errorf("status = %s", resultText(r))
	}
}

func TestLoadFromDataURI(t *testing.T) {
	srv, store := testServer(t)
	uri := "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(testutil.SampleA2L))

	r := callTool(t, srv, "load_a2l_from_url", map[string]any{"url": uri, "save_as": "imports/demo"})
	if r.IsError {
		t.Fatalf("load: %s", resultText(r))
	}
	var res urlLoadResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Metadata.ProjectName != "Demo" || res.SavedAs != "imports/demo.a2l" {
		t.Errorf("result = %+v", res)
	}
	if _, err := store.Read("imports/demo.a2l"); err != nil {
		t.Errorf("saved document missing: %v", err)
	}
}

func TestLoadFromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, testutil.SampleA2L)
	}))
	defer ts.Close()

	srv, _ := testServer(t)
	r := callTool(t, srv, "load_a2l_from_url", map[string]any{"url": ts.URL + "/demo.a2l"})
	if !r.IsError || !strings.Contains(resultText(r), "loopback") {
		t.Fatalf("loopback should be blocked, got %q", resultText(r))
	}

	srv, _ = testServer(t, AllowPrivateHosts())
	r = callTool(t, srv, "load_a2l_from_url", map[string]any{"url": ts.URL + "/demo.a2l"})
	if r.IsError {
		t.Fatalf("load: %s", resultText(r))
	}
}

func TestLoadFromURLRejects(t *testing.T) {
	srv, _ := testServer(t)
	for _, u := range []string{
		"ftp://example.com/a.a2l",
		"data:text/plain,not-base64",
		"data:text/plain;base64,%%%",
		"http://169.254.169.254/latest",
	} {
		if r := callTool(t, srv, "load_a2l_from_url", map[string]any{"url": u}); !r.IsError {
			t.Errorf("%s should fail", u)
		}
	}
}

func TestDocumentPath(t *testing.T) {
	cases := map[string]string{
		"ecu.a2l":        "ecu.a2l",
		"dir/my file":    "dir/my_file.a2l",
		"dir/Engine.A2L": "dir/Engine.A2L",
		"dir/":           "",
	}
	for in, want := range cases {
		got := documentPath(in)
		if want == "" {
			if !strings.HasPrefix(got, "dir/") || !strings.HasSuffix(got, ".a2l") {
				t.Errorf("documentPath(%q) = %q", in, got)
			}
			continue
		}
		if got != want {
			t.Errorf("documentPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_a2l_contract", map[string]any{})
	if !strings.Contains(resultText(r), "Renames are global") {
		t.Error("contract text missing")
	}
	contents, err := srv.readContractResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
}
