package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/ncobase/pagination/data"
	dc "github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/handler"
)

func newTestState(t *testing.T) *state {
	t.Helper()
	cfg := &dc.Config{Search: dc.DefaultSearch()}
	cfg.Search.Memory.Enabled = true

	d, _, err := data.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("data.New() error = %v", err)
	}
	return &state{data: d}
}

func run(s *state, stdin string, args ...string) (string, error) {
	cmd := newRootCmd(s)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, s *state) {
	t.Helper()
	docs := []string{
		`{"id": "a", "status": "open", "rank": 1}`,
		`{"id": "b", "status": "closed", "rank": 2}`,
		`{"id": "c", "status": "open", "rank": 3}`,
	}
	for _, doc := range docs {
		if _, err := run(s, doc, "save", "-i", "tickets", "-t", "ticket", "--refresh", "true"); err != nil {
			t.Fatalf("save %s error = %v", doc, err)
		}
	}
}

func TestSearchCommand(t *testing.T) {
	s := newTestState(t)
	seed(t, s)

	out, err := run(s, "", "search", "-i", "tickets", "-t", "ticket",
		"--filter", `{"status": ["open"]}`, "--order-by", "rank", "--desc", "--size", "1")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}

	var page struct {
		Data          []map[string]any `json:"data"`
		TotalCount    int64            `json:"total_count"`
		NumberOfPages int64            `json:"number_of_pages"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if page.TotalCount != 2 || page.NumberOfPages != 2 || len(page.Data) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if page.Data[0]["id"] != "c" {
		t.Errorf("first hit = %v, want c", page.Data[0]["id"])
	}
}

func TestAllCommand(t *testing.T) {
	s := newTestState(t)
	seed(t, s)

	out, err := run(s, "", "all", "-i", "tickets", "--sort", `[{"rank": "asc"}]`)
	if err != nil {
		t.Fatalf("all error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], `"id":"a"`) {
		t.Errorf("all output = %q", out)
	}
}

func TestGetDeleteCommands(t *testing.T) {
	s := newTestState(t)
	seed(t, s)

	out, err := run(s, "", "get", "b", "-i", "tickets")
	if err != nil || !strings.Contains(out, `"closed"`) {
		t.Fatalf("get = %q, %v", out, err)
	}

	if _, err := run(s, "", "delete", "b", "-i", "tickets", "--refresh", "true"); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if _, err := run(s, "", "get", "b", "-i", "tickets"); !errors.Is(err, ecode.ErrNotFound) {
		t.Errorf("get after delete error = %v", err)
	}
}

func TestSaveGeneratesID(t *testing.T) {
	s := newTestState(t)

	out, err := run(s, `{"status": "open"}`, "save", "-i", "tickets")
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatal(err)
	}
	id, _ := doc["id"].(string)
	if id == "" {
		t.Fatalf("saved document has no id: %q", out)
	}
	if _, err := run(s, "", "get", id, "-i", "tickets"); err != nil {
		t.Errorf("get generated id error = %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	s := newTestState(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing index", []string{"search"}, nil},
		{"bad refresh", []string{"delete", "x", "-i", "tickets", "--refresh", "soon"}, ecode.ErrInvalidArgument},
		{"bad filter", []string{"search", "-i", "tickets", "--filter", "[1]"}, ecode.ErrParse},
		{"bad sort", []string{"search", "-i", "tickets", "--sort", "rank"}, ecode.ErrParse},
		{"bad query", []string{"all", "-i", "tickets", "--query", "{"}, ecode.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(s, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestQueryFlags_Fields(t *testing.T) {
	qf := queryFlags{filter: `{"status": "open", "owner": "ann"}`, fields: []string{"status"}}
	q, err := qf.query()
	if err != nil {
		t.Fatal(err)
	}
	if q.Len() != 1 {
		t.Errorf("clauses = %d, want 1", q.Len())
	}

	qf.fields = nil
	if q, _ = qf.query(); q.Len() != 2 {
		t.Errorf("clauses = %d, want 2", q.Len())
	}
}

func TestIndexAndVersionCommands(t *testing.T) {
	s := newTestState(t)

	if out, err := run(s, "", "index", "create", "-i", "tickets"); err != nil || strings.TrimSpace(out) != "tickets" {
		t.Fatalf("index create = %q, %v", out, err)
	}
	if out, err := run(s, "", "index", "exists", "-i", "tickets"); err != nil || strings.TrimSpace(out) != "true" {
		t.Errorf("index exists = %q, %v", out, err)
	}
	if out, err := run(s, "", "health"); err != nil || !strings.Contains(out, `"memory": true`) {
		t.Errorf("health = %q, %v", out, err)
	}
	if out, err := run(s, "", "version"); err != nil || !strings.Contains(out, "Version:") {
		t.Errorf("version = %q, %v", out, err)
	}
}

func TestServe(t *testing.T) {
	s := newTestState(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, handler.New(s.data).Engine()) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", res.StatusCode)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("serve() error = %v", err)
	}
}
