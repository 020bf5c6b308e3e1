package tsgen

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sjc5/routekit/pkg/dispatch"
)

func testRoutes() []dispatch.RouteInfo {
	noop := dispatch.HandlerFunc(func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		return nil
	})
	d := dispatch.New(dispatch.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	d.Get("/", noop)
	d.Get("/users/:id", noop)
	d.Put("/users/:id", noop)
	d.Post("/a-b", noop)
	d.Post("/a_b", noop)
	return d.Routes()
}

func TestGenerate(t *testing.T) {
	ts, err := Generate(testRoutes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"This file is auto-generated",
		"export interface RouteInfo",
		"export interface Key",
		`"path": "/users/:id"`,
		`"name": "id"`,
		`export const RootPath = "/";`,
		`export const UsersIdPath = "/users/:id";`,
		`export const ABPath = "/a-b";`,
		`export const ABPath2 = "/a_b";`,
		"export type RoutePath",
	} {
		if !strings.Contains(ts, want) {
			t.Errorf("expected output to contain %q\n%s", want, ts)
		}
	}

	if n := strings.Count(ts, "UsersIdPath"); n != 1 {
		t.Errorf("expected one constant per distinct path, got %d", n)
	}
	if strings.Contains(ts, "Do not change, this code is generated from Golang structs") {
		t.Error("expected the converter banner to be stripped")
	}
}

func TestGenerateEmpty(t *testing.T) {
	ts, err := Generate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ts, "export const ROUTES = [] as const;") {
		t.Errorf("expected an empty listing, got\n%s", ts)
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := Write(Opts{OutDest: dir, Routes: testRoutes()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "UsersIdPath") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestConvertToPascalCase(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"/users/:id", "UsersId"},
		{"/api/user-profile/:id", "ApiUserProfileId"},
		{"/", ""},
		{"/files/*", "Files"},
		{"2fa/verify", "_2faVerify"},
		{"already_snake", "AlreadySnake"},
	}
	for _, tt := range tests {
		if got := convertToPascalCase(tt.input); got != tt.want {
			t.Errorf("convertToPascalCase(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}
