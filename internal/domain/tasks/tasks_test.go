package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board", "tasks.json")
	store := NewFileStore(path)

	in := []Task{
		{ID: "_a1b2c3d4e", Title: "order towels", Status: StatusTodo},
		{ID: "_e5f6g7h8i", Title: "fix chair 3", Status: StatusInProgress},
	}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh store must read back from disk, not from cache.
	out, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out[0].Title != "order towels" {
		t.Errorf("loaded %+v", out)
	}
}

func TestFileStore_MissingFileIsEmptyBoard(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d tasks, want 0", len(out))
	}
}

func TestFileStore_CorruptFileServesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := NewFileStore(path)

	in := []Task{{ID: "_r1e2s3t4o", Title: "restock", Status: StatusTodo}}
	if err := store.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 || out[0].Title != "restock" {
		t.Errorf("expected cached board, got %+v", out)
	}
}

func TestFileStore_UnwritablePathKeepsMemory(t *testing.T) {
	store := NewFileStore("/proc/no-such-dir/tasks.json")
	in := []Task{{ID: "_s1w2e3e4p", Title: "sweep", Status: StatusTodo}}

	if err := store.Save(in); err != nil {
		t.Fatalf("Save should degrade, not fail: %v", err)
	}
	out, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("got %d tasks, want the in-memory board", len(out))
	}
}

func TestService_Replace(t *testing.T) {
	svc := NewService(NewMemoryStore())

	saved, err := svc.Replace([]Task{
		{Title: "call supplier"},
		{Title: "paint wall", Status: StatusDone},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if saved[0].ID == "" {
		t.Error("card not assigned an id")
	}
	if saved[0].Status != StatusTodo {
		t.Errorf("blank status = %q, want todo", saved[0].Status)
	}

	listed, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("got %d tasks, want 2", len(listed))
	}
}

func TestService_Replace_Invalid(t *testing.T) {
	svc := NewService(NewMemoryStore())

	if _, err := svc.Replace([]Task{{Title: "   "}}); err == nil {
		t.Error("expected error for blank title")
	}
	if _, err := svc.Replace([]Task{{Title: "x", Status: "blocked"}}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestService_List_NeverNil(t *testing.T) {
	svc := NewService(NewMemoryStore())
	tasks, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if tasks == nil {
		t.Error("empty board must serialize as [], not null")
	}
}

func newTestHandler() *echo.Echo {
	h := NewHandler(NewService(NewMemoryStore()))
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func TestHandler_RoundTrip(t *testing.T) {
	e := newTestHandler()

	body := `[{"title": "order towels", "status": "todo"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("post: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}

	var tasks []Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "order towels" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestHandler_AcceptsClientMintedCards(t *testing.T) {
	e := newTestHandler()

	// The board client mints short random string ids and names the
	// description field "desc"; both must round-trip untouched.
	body := `[{"id":"_x8f3k2a1b","title":"Task","desc":"details","status":"todo"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var tasks []Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tasks[0].ID != "_x8f3k2a1b" {
		t.Errorf("id = %q, client id must be kept", tasks[0].ID)
	}
	if tasks[0].Description != "details" {
		t.Errorf("desc = %q, want details", tasks[0].Description)
	}
	if !strings.Contains(rec.Body.String(), `"desc":"details"`) {
		t.Errorf("response must use the desc field name: %s", rec.Body.String())
	}
}

func TestHandler_EmptyBoardIsArray(t *testing.T) {
	e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestHandler_RejectsNonArray(t *testing.T) {
	e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title": "x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
