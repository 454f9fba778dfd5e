package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	server, err := NewServer(Config{Logger: logger})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server
}

func postCompile(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/compile", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleCompile(t *testing.T) {
	handler := newTestServer(t).Handler()
	recorder := postCompile(t, handler, `{"sql": "SELECT city, COUNT(*) FROM events GROUP BY city"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", recorder.Code, http.StatusOK, recorder.Body)
	}

	var response struct {
		Query struct {
			SelectList []json.RawMessage `json:"selectList"`
			DataSource struct {
				TableName string `json:"tableName"`
			} `json:"dataSource"`
		} `json:"query"`
		LiteralOnly bool `json:"literalOnly"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(response.Query.SelectList) != 2 {
		t.Errorf("select list length = %d, want 2", len(response.Query.SelectList))
	}
	if response.Query.DataSource.TableName != "events" {
		t.Errorf("table name = %q, want events", response.Query.DataSource.TableName)
	}
	if response.LiteralOnly {
		t.Error("literalOnly = true, want false")
	}
}

func TestHandleCompile_LiteralOnly(t *testing.T) {
	handler := newTestServer(t).Handler()
	recorder := postCompile(t, handler, `{"sql": "SELECT 1, 'pong' AS message"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", recorder.Code, http.StatusOK, recorder.Body)
	}
	var response struct {
		LiteralOnly bool `json:"literalOnly"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !response.LiteralOnly {
		t.Error("literalOnly = false, want true")
	}
}

func TestHandleCompile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "compilation failure",
			body:       `{"sql": "SELECT FROM WHERE"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Caught exception while parsing query",
		},
		{
			name:       "validation failure",
			body:       `{"sql": "SELECT a, COUNT(*) FROM t"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "GROUP BY",
		},
		{
			name:       "missing sql field",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "missing sql field",
		},
		{
			name:       "malformed body",
			body:       `{"sql": `,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	handler := newTestServer(t).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postCompile(t, handler, tt.body)
			if recorder.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", recorder.Code, tt.wantStatus, recorder.Body)
			}
			var response struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if !strings.Contains(response.Error, tt.wantError) {
				t.Errorf("error = %q, want mention of %q", response.Error, tt.wantError)
			}
		})
	}
}

func TestHandleCompile_MethodNotAllowed(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/compile", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleHealthz(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if got := recorder.Body.String(); got != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}

func TestHandleConsole(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if !strings.Contains(recorder.Body.String(), "pinotql console") {
		t.Errorf("console page missing title:\n%s", recorder.Body.String())
	}
}

func TestHandleConsole_UnknownPath(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}

func TestMiddleware_RequestID(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id missing from response")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "client-chosen")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("X-Request-Id"); got != "client-chosen" {
		t.Errorf("X-Request-Id = %q, want client-chosen", got)
	}
}

func TestMiddleware_Gzip(t *testing.T) {
	handler := newTestServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if got := recorder.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}
