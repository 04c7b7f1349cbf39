package service

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/mcp/domain"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubRenderer struct{}

func (stubRenderer) Render([]byte) (image.Image, error) {
	return image.NewAlpha(image.Rect(0, 0, 1, 1)), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	base, err := pack.Builtin()
	if err != nil {
		t.Fatalf("builtin pack: %v", err)
	}
	lib, err := library.Open(context.Background(), base, library.WithRenderer(stubRenderer{}))
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(lib.Close)
	server, err := New(lib)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server
}

func connect(t *testing.T, server *Server) (*mcp.ClientSession, <-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ServeTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	return session, serveErr, cancel
}

func decode(t *testing.T, content any, out any) {
	t.Helper()
	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
}

func TestNewRequiresLibrary(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil library")
	}
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	session, serveErr, cancel := connect(t, newTestServer(t))
	defer cancel()
	defer session.Close()

	ctx := context.Background()
	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	want := []string{"category_get", "icon_get", "icon_search", "label_get", "labels_reload"}
	if !slices.Equal(names, want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "icon_search",
		Arguments: map[string]any{"query": "Automob"},
	})
	if err != nil {
		t.Fatalf("call icon_search: %v", err)
	}
	if res.IsError {
		t.Fatalf("icon_search returned tool error: %+v", res.Content)
	}
	var search domain.IconSearchResult
	decode(t, res.StructuredContent, &search)
	var ids []int
	for _, ic := range search.Icons {
		ids = append(ids, ic.ID)
	}
	if want := []int{50, 51, 52}; !slices.Equal(ids, want) {
		t.Fatalf("search ids = %v, want %v", ids, want)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "icon_get",
		Arguments: map[string]any{"id": 999},
	})
	if err == nil && !res.IsError {
		t.Fatal("expected icon_get to fail for unknown icon")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestHealthHandler(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/mcp/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
		Icons  int    `json:"icons"`
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body.Status != "ok" || body.Icons != 14 || body.Locale != "en" {
		t.Fatalf("health = %+v", body)
	}

	post, err := http.Post(srv.URL+"/mcp/health", "application/json", nil)
	if err != nil {
		t.Fatalf("post health: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("post status = %d, want 405", post.StatusCode)
	}
}
