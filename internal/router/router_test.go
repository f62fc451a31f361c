package router

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/logging"
)

func newRouterApp(authEnabled bool) *fiber.App {
	cfg := *config.DefaultConfig()
	cfg.Auth.Enabled = authEnabled
	cfg.Auth.APIKeys = []string{strings.Repeat("k", 32)}

	return New(logging.NewDevelopment(), nil, cfg)
}

func TestRouter_HealthNoAuth(t *testing.T) {
	app := newRouterApp(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Health should bypass auth, got %d", resp.StatusCode)
	}
}

func TestRouter_ForecastRequiresAuth(t *testing.T) {
	app := newRouterApp(true)

	req := httptest.NewRequest("POST", "/v1/forecast/weekly", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without API key, got %d", resp.StatusCode)
	}
}

func TestRouter_ForecastWithKey(t *testing.T) {
	app := newRouterApp(true)

	req := httptest.NewRequest("POST", "/v1/forecast/weekly", strings.NewReader(`{"history":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", strings.Repeat("k", 32))

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", resp.StatusCode)
	}
}

func TestRouter_NotFound(t *testing.T) {
	app := newRouterApp(false)

	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown route, got %d", resp.StatusCode)
	}
}
