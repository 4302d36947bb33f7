package runner

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestActiveRunnersRoute(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM running_sessions s`).
		WithArgs(activeFeedLimit).
		WillReturnRows(activeRows())

	app := fiber.New()
	RegisterRoutes(app.Group("/active-runners"), NewService(mock))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/active-runners/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("active runners route: %v status=%d", err, resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"sessions", "heartRates", "alerts"} {
		payload, ok := body[key]
		if !ok {
			t.Fatalf("missing %q in %s", key, raw)
		}
		if string(payload) != "[]" {
			t.Fatalf("expected empty array for %q, got %s", key, payload)
		}
	}
}

func TestActiveRunnersRouteError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	mock.ExpectQuery(`FROM running_sessions s`).
		WithArgs(activeFeedLimit).
		WillReturnError(errFeed)

	app := fiber.New()
	RegisterRoutes(app.Group("/active-runners"), NewService(mock))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/active-runners/", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v %d", err, resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]string
	_ = json.Unmarshal(raw, &body)
	if body["error"] == "" || body["details"] == "" {
		t.Fatalf("expected error and details fields, got %s", raw)
	}
}
