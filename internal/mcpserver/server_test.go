package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/folio/internal/loader"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	stub := testutil.NewStubLoader(map[string]string{
		"test-owner/alpha": "# Alpha\n",
	})
	svc := portfolio.NewService(testutil.TestCatalog(t), stub)
	return New(svc, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_projects":
		result, err = srv.searchProjects(ctx, req)
	case "list_tags":
		result, err = srv.listTags(ctx, req)
	case "get_project":
		result, err = srv.getProject(ctx, req)
	case "read_writeup":
		result, err = srv.readWriteup(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

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

func TestSearchProjects(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_projects", map[string]interface{}{
		"tags": []interface{}{"Go", "numerics"},
	})
	var items []portfolio.ProjectItem
	if err := json.Unmarshal([]byte(resultText(r)), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != "alpha" {
		t.Errorf("items = %+v, want only alpha", items)
	}

	r = callTool(t, srv, "search_projects", map[string]interface{}{})
	if err := json.Unmarshal([]byte(resultText(r)), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Errorf("unfiltered search returned %d items", len(items))
	}
}

func TestListTags(t *testing.T) {
	srv := testServer(t)
	var tags []string
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "list_tags", nil))), &tags); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"go", "numerics"}, tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
}

func TestGetProject(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_project", map[string]interface{}{"id": "beta"})
	if r.IsError || !strings.Contains(resultText(r), `"writeup_kind": "paper"`) {
		t.Errorf("get_project = %q", resultText(r))
	}

	r = callTool(t, srv, "get_project", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing project")
	}

	r = callTool(t, srv, "get_project", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing id")
	}
}

func TestReadWriteup(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_writeup", map[string]interface{}{"id": "alpha"})
	if r.IsError || resultText(r) != "# Alpha\n" {
		t.Errorf("remote write-up = %q", resultText(r))
	}

	r = callTool(t, srv, "read_writeup", map[string]interface{}{"id": "beta"})
	if !strings.HasPrefix(resultText(r), "# Beta Notes") {
		t.Errorf("paper write-up = %q", resultText(r))
	}

	r = callTool(t, srv, "read_writeup", map[string]interface{}{"id": "gamma"})
	if !r.IsError || resultText(r) != loader.FailureMessage {
		t.Errorf("failed write-up = %q, error = %v", resultText(r), r.IsError)
	}
}

func TestProfileResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readProfileResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ProfileURI || !strings.Contains(tc.Text, "Test Owner") {
		t.Errorf("profile resource = %+v", contents[0])
	}
}
