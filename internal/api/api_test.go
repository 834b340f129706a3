package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/docservice"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/docstate"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/storage"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/testutil"
)

// testEnv sets up a temp workspace, history DB, service, and router for testing.
// An empty authToken means disabled mode; otherwise token mode.
func testEnv(t *testing.T, authToken string) (http.Handler, *storage.FS) {
	t.Helper()
	return testEnvFull(t, authToken != "", authToken, nil)
}

func testEnvFull(t *testing.T, authEnabled bool, authToken string, sseHandler http.Handler) (http.Handler, *storage.FS) {
	t.Helper()
	_, store := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := docservice.NewService(docstate.New(time.Second), store, db, nil, logger)
	return NewRouter(svc, authEnabled, authToken, sseHandler), store
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loadSample(t *testing.T, router http.Handler) {
	t.Helper()
	w := do(t, router, http.MethodPost, "/document/load", map[string]string{"text": testutil.SampleA2L})
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLoadAndStatus(t *testing.T) {
	router, _ := testEnv(t, "")

	w := do(t, router, http.MethodGet, "/document", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"loaded":false`) {
		t.Fatalf("status before load = %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/document/load", map[string]string{"text": testutil.SampleA2L})
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d, body = %s", w.Code, w.Body.String())
	}
	var md map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &md)
	if md["project_name"] != "Demo" {
		t.Errorf("project_name = %v", md["project_name"])
	}
	if md["asap2_version"] != "1.71" {
		t.Errorf("asap2_version = %v", md["asap2_version"])
	}

	w = do(t, router, http.MethodGet, "/document", nil)
	if !strings.Contains(w.Body.String(), `"loaded":true`) {
		t.Errorf("status after load = %s", w.Body.String())
	}
}

func TestLoadFromPath(t *testing.T) {
	router, store := testEnv(t, "")
	if err := store.Write("ecu/engine.a2l", []byte(testutil.SampleA2L)); err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodPost, "/document/load", map[string]string{"path": "ecu/engine.a2l"})
	if w.Code != http.StatusOK {
		t.Fatalf("load path = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/document/load", map[string]string{"path": "ecu/missing.a2l"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("missing file = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "i/o failure") {
		t.Errorf("io error not surfaced: %s", w.Body.String())
	}
}

func TestLoadValidation(t *testing.T) {
	router, _ := testEnv(t, "")

	cases := []struct {
		name string
		body any
		want int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"neither", map[string]string{}, http.StatusBadRequest},
		{"both", map[string]string{"text": "x", "path": "y"}, http.StatusBadRequest},
		{"parse error", map[string]string{"text": `/begin PROJECT P "" /end MODULE`}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/document/load", tc.body)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestNoDocumentConflict(t *testing.T) {
	router, _ := testEnv(t, "")
	for _, path := range []string{"/entities", "/tree", "/document/export", "/measurements/EngineSpeed"} {
		w := do(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusConflict {
			t.Errorf("%s without document = %d, want 409", path, w.Code)
		}
	}
}

func TestEntitiesAndRename(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodPost, "/entities/rename", map[string]string{
		"kind": "Measurement", "old_name": "EngineSpeed", "new_name": "RPM",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rename = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name":"RPM"`) {
		t.Errorf("renamed entity missing: %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/measurements/EngineSpeed", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("old name = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodGet, "/measurements/RPM", nil)
	if w.Code != http.StatusOK {
		t.Errorf("new name = %d, want 200", w.Code)
	}

	w = do(t, router, http.MethodPost, "/entities/rename", map[string]string{
		"kind": "Group", "old_name": "a", "new_name": "b",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad kind = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, "/entities", nil)
	var list EntityListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Entities) != 5 {
		t.Errorf("entities = %d, want 5", len(list.Entities))
	}
}

func TestModuleDescription(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodPut, "/modules/Engine/description", map[string]string{"text": "Powertrain"})
	if w.Code != http.StatusOK {
		t.Fatalf("set description = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"long_identifier":"Powertrain"`) {
		t.Errorf("description not applied: %s", w.Body.String())
	}
}

func TestTree(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodGet, "/tree", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tree = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":"Engine::Measurement::EngineSpeed"`) {
		t.Errorf("tree missing item id: %s", w.Body.String())
	}
}

func TestUpdateCharacteristic(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodGet, "/characteristics/IdleTarget", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	var c map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &c)

	c["address"] = "0xZZ"
	w = do(t, router, http.MethodPut, "/characteristics/IdleTarget", c)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad hex = %d, want 422", w.Code)
	}

	c["address"] = "0x2400"
	c["characteristic_type"] = "cube4"
	w = do(t, router, http.MethodPut, "/characteristics/IdleTarget", c)
	if w.Code != http.StatusNoContent {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/characteristics/IdleTarget", nil)
	if !strings.Contains(w.Body.String(), `"address":"0x2400"`) ||
		!strings.Contains(w.Body.String(), `"characteristic_type":"CUBE_4"`) {
		t.Errorf("update not applied: %s", w.Body.String())
	}

	c["name"] = ""
	w = do(t, router, http.MethodPut, "/characteristics/IdleTarget", c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty name = %d, want 400", w.Code)
	}
}

func TestUpdateMeasurementAndAxisPts(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodPut, "/measurements/EngineSpeed", map[string]any{
		"name": "EngineSpeed", "datatype": "BOGUS",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad datatype = %d, want 422", w.Code)
	}

	w = do(t, router, http.MethodGet, "/axis-pts/SpeedAxis", nil)
	var a map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	a["max_axis_points"] = 12
	w = do(t, router, http.MethodPut, "/axis-pts/SpeedAxis", a)
	if w.Code != http.StatusNoContent {
		t.Fatalf("axis update = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodPut, "/axis-pts/Ghost", a)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing axis = %d, want 404", w.Code)
	}
}

func TestExportETag(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodGet, "/document/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	etag := w.Header().Get("ETag")
	want := `"` + storage.Checksum(w.Body.Bytes()) + `"`
	if etag != want {
		t.Errorf("etag = %s, want %s", etag, want)
	}
	if w.Header().Get(headerRevision) != "0" {
		t.Errorf("revision = %q", w.Header().Get(headerRevision))
	}

	req := httptest.NewRequest(http.MethodGet, "/document/export", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("conditional export = %d, want 304", w.Code)
	}
}

func TestSaveAndHistory(t *testing.T) {
	router, store := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodPost, "/document/save", map[string]string{"path": "out.a2l"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("save = %d, body = %s", w.Code, w.Body.String())
	}
	if _, err := store.Read("out.a2l"); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	w = do(t, router, http.MethodGet, "/files", nil)
	if !strings.Contains(w.Body.String(), `"path":"out.a2l"`) {
		t.Errorf("files = %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/history?limit=10", nil)
	var hist HistoryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &hist)
	if hist.Total != 2 {
		t.Fatalf("history total = %d, want 2", hist.Total)
	}
	if hist.Entries[0].Action != "saved" || hist.Entries[1].Action != "loaded" {
		t.Errorf("history order = %s, %s", hist.Entries[0].Action, hist.Entries[1].Action)
	}

	w = do(t, router, http.MethodPost, "/document/save", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("save without path = %d, want 400", w.Code)
	}
}

func TestUpdateMetadata(t *testing.T) {
	router, _ := testEnv(t, "")
	loadSample(t, router)

	w := do(t, router, http.MethodPut, "/document/metadata", map[string]any{
		"project_name": "Renamed", "project_long_identifier": "x", "header_comment": "  ",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("metadata = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"header_comment":null`) {
		t.Errorf("blank comment should drop header: %s", w.Body.String())
	}
}

func TestSymbolsReadAndImport(t *testing.T) {
	router, store := testEnv(t, "")
	loadSample(t, router)

	img := testutil.ELF(t,
		testutil.ELFSymbol{Name: "g_speed", Value: 0x4000, Size: 2},
		testutil.ELFSymbol{Name: "helper", Value: 0x100},
	)
	if err := store.Write("fw.elf", img); err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodPost, "/symbols/read", map[string]string{"path": "fw.elf", "match": "^g_"})
	if w.Code != http.StatusOK {
		t.Fatalf("read symbols = %d, body = %s", w.Code, w.Body.String())
	}
	var list SymbolListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Symbols) != 1 || list.Symbols[0].Name != "g_speed" {
		t.Fatalf("symbols = %+v", list.Symbols)
	}

	w = do(t, router, http.MethodPost, "/symbols/read", map[string]string{"path": "fw.elf", "match": "("})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad regex = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodPost, "/symbols/import", map[string]any{"symbols": list.Symbols})
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d, body = %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodGet, "/measurements/g_speed", nil)
	if !strings.Contains(w.Body.String(), `"ecu_address":"0x4000"`) {
		t.Errorf("imported measurement = %s", w.Body.String())
	}

	w = do(t, router, http.MethodPost, "/symbols/import", map[string]any{
		"module": "Chassis", "symbols": list.Symbols,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown module = %d, want 404", w.Code)
	}

	w = do(t, router, http.MethodPost, "/symbols/import", map[string]any{
		"symbols": []map[string]any{{"name": ""}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unnamed symbol = %d, want 400", w.Code)
	}
}

// Auth tests.

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, _ := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/document", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed status = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router, _ := testEnv(t, "secret123")

	w := do(t, router, http.MethodGet, "/document", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router, _ := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/document", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func sseStub() http.Handler {
	// Writes headers and blocks until context done.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router, _ := testEnvFull(t, true, "secret", sseStub())

	w := do(t, router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	router, _ := testEnvFull(t, true, "tok", sseStub())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

func TestSSEEvents_QueryToken(t *testing.T) {
	router, _ := testEnvFull(t, true, "tok", sseStub())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events?access_token=tok", nil).WithContext(ctx)
	req.Header.Set("Accept", "text/event-stream")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("SSE with query token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_QueryTokenOnlyForStreams(t *testing.T) {
	router, _ := testEnv(t, "tok")

	w := do(t, router, http.MethodGet, "/document?access_token=tok", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("query token on JSON route = %d, want 401", w.Code)
	}
}

// Upload tests.

func uploadELF(t *testing.T, router http.Handler, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "fw.elf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.Copy(part, bytes.NewReader(content))
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/symbols/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadSymbols(t *testing.T) {
	router, store := testEnv(t, "")
	img := testutil.ELF(t,
		testutil.ELFSymbol{Name: "b_var", Value: 0x20},
		testutil.ELFSymbol{Name: "a_var", Value: 0x10},
	)

	w := uploadELF(t, router, img, map[string]string{"match": "_var$"})
	if w.Code != http.StatusOK {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var list SymbolListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Symbols) != 2 || list.Symbols[0].Name != "a_var" {
		t.Errorf("symbols = %+v", list.Symbols)
	}

	files, _ := store.List("")
	if len(files) != 0 {
		t.Errorf("upload should not touch the workspace, found %d files", len(files))
	}
}

func TestUploadSymbols_NotELF(t *testing.T) {
	router, _ := testEnv(t, "")
	w := uploadELF(t, router, []byte("plain text"), nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-elf upload = %d, want 400", w.Code)
	}
}

func TestUploadSymbols_MissingFileField(t *testing.T) {
	router, _ := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("wrong", "data")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/symbols/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing field = %d, want 400", w.Code)
	}
}
