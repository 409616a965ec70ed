package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func TestTokenCmd_SignsWithConfiguredSecret(t *testing.T) {
	dir := t.TempDir()
	env := "JWT_SECRET=cli-secret\nDB_DRIVER=sqlite\nLOG_LEVEL=error\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("JWT_SECRET", "cli-secret")

	envDir := dir
	cmd := tokenCmd(&envDir)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	id := strings.Repeat("a", 32)
	cmd.SetArgs([]string{id, "--role", "nbfc"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), claims, func(*jwt.Token) (any, error) {
		return []byte("cli-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims["sub"] != id || claims["role"] != "nbfc" {
		t.Fatalf("claims = %v", claims)
	}
}

func TestNewEcho_LogsRequests(t *testing.T) {
	buf := &bytes.Buffer{}
	e := newEcho(slog.New(slog.NewJSONHandler(buf, nil)))
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for _, p := range []string{"/ok", "/boom"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Fatalf("%s: request id header missing", p)
		}
	}
	logs := buf.String()
	if !strings.Contains(logs, `"uri":"/ok"`) || !strings.Contains(logs, `"status":204`) {
		t.Fatalf("ok request not logged: %s", logs)
	}
	if !strings.Contains(logs, `"uri":"/boom"`) || !strings.Contains(logs, `"level":"ERROR"`) {
		t.Fatalf("panic not logged as error: %s", logs)
	}
}
