package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/amp/internal/models"
	th "github.com/desertthunder/amp/internal/testing"
	"github.com/desertthunder/amp/internal/tools"
)

func newTestServer(t *testing.T, svc *th.MockService, in io.Reader, out io.Writer) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		Registry: tools.NewRegistry(svc, 25),
		In:       in,
		Out:      out,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return srv
}

// exchange runs the server over the given newline-delimited messages and
// returns one decoded response per output line.
func exchange(t *testing.T, svc *th.MockService, msgs ...string) []JSONRPCResponse {
	t.Helper()
	in := strings.NewReader(strings.Join(msgs, "\n") + "\n")
	var out bytes.Buffer
	srv := newTestServer(t, svc, in, &out)
	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var resps []JSONRPCResponse
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r JSONRPCResponse
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("bad response line %q: %v", line, err)
		}
		resps = append(resps, r)
	}
	return resps
}

// one asserts exactly one response came back and returns it.
func one(t *testing.T, resps []JSONRPCResponse) JSONRPCResponse {
	t.Helper()
	if len(resps) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resps))
	}
	return resps[0]
}

func resultAs[T any](t *testing.T, resp JSONRPCResponse) T {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error response: %+v", resp.Error)
	}
	buf, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-marshal result: %v", err)
	}
	var v T
	if err := json.Unmarshal(buf, &v); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return v
}

func TestNewServer(t *testing.T) {
	t.Run("Requires Registry", func(t *testing.T) {
		_, err := NewServer(Config{In: strings.NewReader(""), Out: io.Discard})
		if err == nil {
			t.Fatal("expected error for missing registry")
		}
	})

	t.Run("Requires Streams", func(t *testing.T) {
		_, err := NewServer(Config{Registry: tools.NewRegistry(&th.MockService{}, 25)})
		if err == nil {
			t.Fatal("expected error for missing streams")
		}
	})

	t.Run("Defaults Name And Version", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{},
			`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
		result := resultAs[map[string]any](t, resp)
		info, ok := result["serverInfo"].(map[string]any)
		if !ok {
			t.Fatalf("missing serverInfo in %v", result)
		}
		if info["name"] != "amp" {
			t.Errorf("expected server name amp, got %v", info["name"])
		}
	})
}

func TestInitialize(t *testing.T) {
	resp := one(t, exchange(t, &th.MockService{},
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26"}}`))

	if string(resp.ID) != "1" {
		t.Errorf("expected id 1, got %s", resp.ID)
	}
	result := resultAs[map[string]any](t, resp)
	if result["protocolVersion"] != latestProtocolVersion {
		t.Errorf("expected protocol version %s, got %v", latestProtocolVersion, result["protocolVersion"])
	}
	caps, ok := result["capabilities"].(map[string]any)
	if !ok {
		t.Fatal("missing capabilities")
	}
	if _, ok := caps["tools"]; !ok {
		t.Error("expected tools capability")
	}
}

func TestPing(t *testing.T) {
	resp := one(t, exchange(t, &th.MockService{}, `{"jsonrpc":"2.0","id":7,"method":"ping"}`))
	if resp.Error != nil {
		t.Fatalf("ping failed: %+v", resp.Error)
	}
}

func TestToolsList(t *testing.T) {
	resp := one(t, exchange(t, &th.MockService{}, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	result := resultAs[MCPListToolsResult](t, resp)

	if len(result.Tools) != 11 {
		t.Fatalf("expected 11 tools, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "search_catalog" {
		t.Errorf("expected search_catalog first, got %s", result.Tools[0].Name)
	}
	for _, tool := range result.Tools {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if !json.Valid(tool.InputSchema) {
			t.Errorf("tool %s has invalid schema", tool.Name)
		}
	}
}

func TestToolsCall(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &th.MockService{Songs: []models.Song{{ID: "s.1", Name: "Harvest Moon", Artist: "Neil Young"}}}
		resp := one(t, exchange(t, svc,
			`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_library_songs"}}`))
		result := resultAs[MCPCallToolResult](t, resp)

		if result.IsError {
			t.Fatalf("unexpected tool error: %+v", result.Content)
		}
		if len(result.Content) != 1 || result.Content[0].Type != "text" {
			t.Fatalf("expected single text content, got %+v", result.Content)
		}
		if !strings.Contains(result.Content[0].Text, "Harvest Moon") {
			t.Errorf("expected song in output, got %q", result.Content[0].Text)
		}
	})

	t.Run("Handler Error Becomes Tool Result", func(t *testing.T) {
		svc := &th.MockService{Err: true}
		resp := one(t, exchange(t, svc,
			`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_library_songs"}}`))
		result := resultAs[MCPCallToolResult](t, resp)

		if !result.IsError {
			t.Fatal("expected isError result")
		}
		if len(result.Content) != 1 || result.Content[0].Text == "" {
			t.Fatalf("expected error text content, got %+v", result.Content)
		}
	})

	t.Run("Validation Error Becomes Tool Result", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{},
			`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"search_catalog","arguments":{"query":"  "}}}`))
		result := resultAs[MCPCallToolResult](t, resp)
		if !result.IsError {
			t.Fatal("expected isError result for blank query")
		}
	})

	t.Run("Unknown Tool", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{},
			`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"nope"}}`))
		if resp.Error == nil || resp.Error.Code != JSONRPCInvalidParams {
			t.Fatalf("expected invalid params error, got %+v", resp.Error)
		}
	})

	t.Run("Missing Name", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{},
			`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{}}`))
		if resp.Error == nil || resp.Error.Code != JSONRPCInvalidParams {
			t.Fatalf("expected invalid params error, got %+v", resp.Error)
		}
	})

	t.Run("Bad Params", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{},
			`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":"not-an-object"}`))
		if resp.Error == nil || resp.Error.Code != JSONRPCInvalidParams {
			t.Fatalf("expected invalid params error, got %+v", resp.Error)
		}
	})
}

func TestProtocolErrors(t *testing.T) {
	t.Run("Parse Error", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{}, `{not json`))
		if resp.Error == nil || resp.Error.Code != JSONRPCParseError {
			t.Fatalf("expected parse error, got %+v", resp.Error)
		}
		if string(resp.ID) != "null" {
			t.Errorf("expected null id, got %s", resp.ID)
		}
	})

	t.Run("Wrong Version", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{}, `{"jsonrpc":"1.0","id":1,"method":"ping"}`))
		if resp.Error == nil || resp.Error.Code != JSONRPCInvalidRequest {
			t.Fatalf("expected invalid request error, got %+v", resp.Error)
		}
	})

	t.Run("Method Not Found", func(t *testing.T) {
		resp := one(t, exchange(t, &th.MockService{}, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`))
		if resp.Error == nil || resp.Error.Code != JSONRPCMethodNotFound {
			t.Fatalf("expected method not found, got %+v", resp.Error)
		}
	})
}

func TestNotifications(t *testing.T) {
	// A notification produces no response; the trailing ping proves the
	// server kept reading.
	resps := exchange(t, &th.MockService{},
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if len(resps) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resps))
	}
	if string(resps[0].ID) != "1" {
		t.Errorf("expected ping response, got id %s", resps[0].ID)
	}
}

func TestRunSkipsBlankLines(t *testing.T) {
	resps := exchange(t, &th.MockService{},
		``,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		`   `)
	if len(resps) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resps))
	}
}

func TestRunSequential(t *testing.T) {
	var msgs []string
	for i := 1; i <= 5; i++ {
		msgs = append(msgs, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"ping"}`, i))
	}
	resps := exchange(t, &th.MockService{}, msgs...)
	if len(resps) != 5 {
		t.Fatalf("expected 5 responses, got %d", len(resps))
	}
	for i, r := range resps {
		if string(r.ID) != fmt.Sprintf("%d", i+1) {
			t.Errorf("response %d has id %s", i, r.ID)
		}
	}
}
