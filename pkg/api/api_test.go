package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lemonberrylabs/golox/pkg/lox"
	"github.com/lemonberrylabs/golox/pkg/store"
)

func setupTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s := store.New(lox.WithMaxSteps(10_000))
	return New(s), s
}

func doRequest(t *testing.T, srv *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON response %q: %v", data, err)
	}
	return resp.StatusCode, result
}

func TestRunScript(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, result := doRequest(t, srv, "POST", "/v1/run", `{"source": "print 1 + 2;\nprint \"hi\";"}`)
	if code != 200 {
		t.Fatalf("got status %d, want 200: %v", code, result)
	}
	if result["status"] != "ok" {
		t.Errorf("got status %v, want ok", result["status"])
	}
	if result["output"] != "3\nhi\n" {
		t.Errorf("got output %q, want %q", result["output"], "3\nhi\n")
	}
	if ds := result["diagnostics"].([]any); len(ds) != 0 {
		t.Errorf("got diagnostics %v, want none", ds)
	}
}

func TestRunReportsDiagnostics(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []struct {
		name    string
		source  string
		status  string
		kind    string
		line    float64
		message string
	}{
		{"syntax", `print ;`, "static_error", "syntax", 1, "Expect expression."},
		{"resolution", `return 1;`, "static_error", "resolution", 1, "Can't return from top-level code."},
		{"runtime", `print 1;\nprint -nil;`, "runtime_error", "runtime", 2, "Operand must be a number."},
		{"step limit", `while (true) {}`, "runtime_error", "runtime", 1, "Execution step limit exceeded."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"source": strings.ReplaceAll(tt.source, `\n`, "\n")})
			code, result := doRequest(t, srv, "POST", "/v1/run", string(body))
			if code != 200 {
				t.Fatalf("got status %d, want 200", code)
			}
			if result["status"] != tt.status {
				t.Errorf("got status %v, want %s", result["status"], tt.status)
			}
			ds := result["diagnostics"].([]any)
			if len(ds) != 1 {
				t.Fatalf("got %d diagnostics, want 1", len(ds))
			}
			d := ds[0].(map[string]any)
			if d["kind"] != tt.kind || d["line"] != tt.line || d["message"] != tt.message {
				t.Errorf("got %v, want %s line %v %q", d, tt.kind, tt.line, tt.message)
			}
		})
	}
}

func TestRunRequiresSource(t *testing.T) {
	srv, _ := setupTestServer(t)

	for _, body := range []string{`{}`, `not json`} {
		code, result := doRequest(t, srv, "POST", "/v1/run", body)
		if code != 400 {
			t.Errorf("%s: got status %d, want 400", body, code)
		}
		errObj, ok := result["error"].(map[string]any)
		if !ok {
			t.Fatalf("%s: missing error envelope: %v", body, result)
		}
		if errObj["status"] != "INVALID_ARGUMENT" || errObj["code"] != float64(400) {
			t.Errorf("%s: got %v", body, errObj)
		}
	}
}

func TestTokensAndAST(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, result := doRequest(t, srv, "POST", "/v1/tokens", `{"source": "var x;"}`)
	if code != 200 {
		t.Fatalf("got status %d, want 200", code)
	}
	tokens := result["tokens"].([]any)
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4", len(tokens))
	}
	first := tokens[0].(map[string]any)
	if first["type"] != "VAR" || first["lexeme"] != "var" || first["line"] != float64(1) {
		t.Errorf("got %v, want VAR token", first)
	}

	code, result = doRequest(t, srv, "POST", "/v1/ast", `{"source": "print -123 * (45.67);"}`)
	if code != 200 {
		t.Fatalf("got status %d, want 200", code)
	}
	if want := "(print (* (- 123) (group 45.67)))"; result["ast"] != want {
		t.Errorf("got %q, want %q", result["ast"], want)
	}
}

func TestSessionFlow(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, created := doRequest(t, srv, "POST", "/v1/sessions", "")
	if code != 200 {
		t.Fatalf("create: got status %d, want 200", code)
	}
	name := created["name"].(string)
	if !strings.HasPrefix(name, "sessions/") {
		t.Fatalf("got name %q, want sessions/ prefix", name)
	}
	id := strings.TrimPrefix(name, "sessions/")

	code, result := doRequest(t, srv, "POST", "/v1/sessions/"+id+"/eval", `{"source": "var a = 20;"}`)
	if code != 200 || result["status"] != "ok" {
		t.Fatalf("eval: got %d %v", code, result)
	}
	_, result = doRequest(t, srv, "POST", "/v1/sessions/"+id+"/eval", `{"source": "a * 2 + 2"}`)
	if result["output"] != "42\n" {
		t.Errorf("got output %q, want %q", result["output"], "42\n")
	}
	if result["value"] != float64(42) {
		t.Errorf("got value %v, want 42", result["value"])
	}

	code, result = doRequest(t, srv, "GET", "/v1/sessions/"+id, "")
	if code != 200 {
		t.Fatalf("get: got status %d, want 200", code)
	}
	if result["runCount"] != float64(2) {
		t.Errorf("got runCount %v, want 2", result["runCount"])
	}
	if entries := result["entries"].([]any); len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}

	_, result = doRequest(t, srv, "GET", "/v1/sessions", "")
	if sessions := result["sessions"].([]any); len(sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(sessions))
	}

	code, result = doRequest(t, srv, "DELETE", "/v1/sessions/"+id, "")
	if code != 200 || result["name"] != name {
		t.Errorf("delete: got %d %v", code, result)
	}

	code, result = doRequest(t, srv, "GET", "/v1/sessions/"+id, "")
	if code != 404 {
		t.Errorf("get after delete: got status %d, want 404", code)
	}
	if errObj := result["error"].(map[string]any); errObj["status"] != "NOT_FOUND" {
		t.Errorf("got %v, want NOT_FOUND", errObj)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{"GET", "/v1/sessions/missing", ""},
		{"DELETE", "/v1/sessions/missing", ""},
		{"POST", "/v1/sessions/missing/eval", `{"source": "1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			code, _ := doRequest(t, srv, tt.method, tt.path, tt.body)
			if code != 404 {
				t.Errorf("got status %d, want 404", code)
			}
		})
	}
}

func TestRequestLog(t *testing.T) {
	var buf bytes.Buffer
	srv := New(store.New(), WithRequestLog(&buf))

	doRequest(t, srv, "GET", "/v1/sessions", "")
	if !strings.Contains(buf.String(), "/v1/sessions") {
		t.Errorf("got log %q, want the request path", buf.String())
	}
}
