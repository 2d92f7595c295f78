package wire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barbershop-booking/internal/data/repository"
	"barbershop-booking/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap/zaptest"
)

// pingDB satisfies database.PgxIface for routes that only ping.
type pingDB struct {
	err error
}

func (d *pingDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *pingDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (d *pingDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}

func (d *pingDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func (d *pingDB) Ping(ctx context.Context) error { return d.err }

func (d *pingDB) Close() {}

func newTestApp(t *testing.T, db *pingDB) *App {
	t.Helper()
	log := zaptest.NewLogger(t)
	cfg := &utils.Config{
		App:     utils.AppConfig{Name: "barbershop-booking", Timezone: "UTC"},
		Booking: utils.BookingConfig{SlotGranularityMinutes: 15, StoreTimeout: time.Second},
		Directory: utils.DirectoryConfig{
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
	}

	app, err := Wiring(Deps{
		DB:     db,
		Repo:   repository.NewRepository(db, time.Second, log),
		Config: cfg,
		Log:    log,
	})
	if err != nil {
		t.Fatalf("wiring: %v", err)
	}
	return app
}

func serve(app *App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestWiring_Health(t *testing.T) {
	app := newTestApp(t, &pingDB{})

	if rec := serve(app, http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	if rec := serve(app, http.MethodGet, "/ready"); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
}

func TestWiring_NotReadyWhenPostgresDown(t *testing.T) {
	app := newTestApp(t, &pingDB{err: errors.New("connection refused")})

	if rec := serve(app, http.MethodGet, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestWiring_AppointmentsRequireSession(t *testing.T) {
	app := newTestApp(t, &pingDB{})

	for _, target := range []string{"/api/appointments/my-appointments", "/api/appointments/abc"} {
		if rec := serve(app, http.MethodGet, target); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
	}
}

func TestWiring_AvailabilityIsPublic(t *testing.T) {
	app := newTestApp(t, &pingDB{})

	// The directory is unreachable, so the request gets past routing and auth.
	rec := serve(app, http.MethodGet, "/api/availability/shop/5/date/2025-11-15")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from the unreachable directory, got %d", rec.Code)
	}
}

func TestWiring_BadTimezone(t *testing.T) {
	log := zaptest.NewLogger(t)
	_, err := Wiring(Deps{
		DB:     &pingDB{},
		Repo:   repository.NewRepository(&pingDB{}, time.Second, log),
		Config: &utils.Config{App: utils.AppConfig{Timezone: "Mars/Olympus"}},
		Log:    log,
	})
	if err == nil {
		t.Fatalf("expected timezone error")
	}
}

func TestWiring_BadTrustedProxy(t *testing.T) {
	log := zaptest.NewLogger(t)
	_, err := Wiring(Deps{
		DB:   &pingDB{},
		Repo: repository.NewRepository(&pingDB{}, time.Second, log),
		Config: &utils.Config{
			App:       utils.AppConfig{Timezone: "UTC"},
			RateLimit: utils.RateLimitConfig{RPS: 1, TrustedProxies: []string{"lb.internal"}},
		},
		Log: log,
	})
	if err == nil {
		t.Fatalf("expected trusted proxy error")
	}
}
