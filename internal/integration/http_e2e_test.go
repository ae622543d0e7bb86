//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/identity"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotels",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/hotels?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

// fakeStripe answers the two PaymentIntents calls the processor makes.
type fakeStripe struct {
	mu      sync.Mutex
	created int
	cancels []string
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/payment_intents":
		f.created++
		id := fmt.Sprintf("pi_e2e_%d", f.created)
		_, _ = fmt.Fprintf(w, `{"id":%q,"object":"payment_intent","amount":%s,"currency":%q,"client_secret":"%s_secret","status":"requires_payment_method"}`,
			id, r.PostForm.Get("amount"), r.PostForm.Get("currency"), id)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/cancel"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/payment_intents/"), "/cancel")
		f.cancels = append(f.cancels, id)
		_, _ = fmt.Fprintf(w, `{"id":%q,"object":"payment_intent","status":"canceled"}`, id)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"no such route"}}`))
	}
}

// memImages stands in for the object store; the lifecycle only deletes.
type memImages struct {
	mu      sync.Mutex
	deleted []string
}

func (m *memImages) Upload(_ context.Context, key, _ string, _ io.ReadSeeker) (string, error) {
	return "https://img.example/" + key, nil
}

func (m *memImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

type stack struct {
	ts       *httptest.Server
	verifier *identity.Verifier
	stripe   *fakeStripe
	repo     *mysqlrepo.Repo
	orphans  *redisad.OrphanQueue
	payments *stripe.Processor
	images   *memImages
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := startMySQL(t)
	repo := mysqlrepo.New(db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)

	fs := &fakeStripe{}
	stripeSrv := httptest.NewServer(fs)
	t.Cleanup(stripeSrv.Close)
	payments, err := stripe.New("sk_test_e2e", stripeSrv.URL, 100)
	require.NoError(t, err)

	verifier, err := identity.NewVerifier("e2e-secret", "https://idp.e2e")
	require.NoError(t, err)
	auth := identity.NewAuthenticator(verifier, nil, cache, time.Minute)

	images := &memImages{}
	orphans := redisad.NewOrphanQueue(cache.Client())
	sessions := app.NewSessionService(cache, repo, time.Hour)
	srv := server.New(auth)
	srv.MountHandlers(&server.Handlers{
		Q:        app.NewQueryService(repo, cache, time.Minute),
		Hotels:   app.NewHotelService(repo, images, cache),
		Sessions: sessions,
		Bookings: app.NewBookingService(repo, repo, payments, "usd").
			WithOrphanQueue(orphans).
			WithSessions(sessions),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)

	return &stack{ts: ts, verifier: verifier, stripe: fs, repo: repo, orphans: orphans, payments: payments, images: images}
}

func (s *stack) token(t *testing.T, sub string) string {
	t.Helper()
	tok, err := s.verifier.Sign(sub, "Guest", sub+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *stack) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decodeAs[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_BookingLifecycle(t *testing.T) {
	s := newStack(t)
	owner := s.token(t, "owner_1")
	guest := s.token(t, "guest_1")

	res := s.do(t, http.MethodPost, "/v1/hotels", owner, map[string]any{
		"title":               "Sea Breeze",
		"description":         "Quiet place by the water",
		"image":               "https://img.example/hotel.jpg",
		"country":             "PT",
		"state":               "13",
		"city":                "Porto",
		"address":             "Rua do Mar 100, Porto",
		"locationDescription": "Five minutes from the beach",
		"amenities":           map[string]bool{"pool": true},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	hotel := decodeAs[domain.Hotel](t, res)

	res = s.do(t, http.MethodPost, "/v1/rooms", owner, map[string]any{
		"hotelId":       hotel.ID,
		"title":         "Double",
		"description":   "Two people, one big bed",
		"bedCount":      1,
		"guestCount":    2,
		"bathroomCount": 1,
		"kingBed":       1,
		"image":         "https://img.example/room.jpg",
		"roomPrice":     100,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	room := decodeAs[domain.Room](t, res)

	res = s.do(t, http.MethodGet, "/v1/rooms/"+room.ID+"/quote?start=2026-05-01&end=2026-05-04", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 300.0, decodeAs[map[string]any](t, res)["totalPrice"])

	booking := map[string]any{
		"hotelId": hotel.ID, "roomId": room.ID,
		"startDate": "2026-05-01T00:00:00Z", "endDate": "2026-05-04T00:00:00Z",
		"totalPrice": 300,
	}
	res = s.do(t, http.MethodPost, "/v1/payment-intents", guest, map[string]any{"booking": booking})
	require.Equal(t, http.StatusOK, res.StatusCode)
	created := decodeAs[struct {
		PaymentIntent domain.PaymentIntent `json:"paymentIntent"`
	}](t, res)
	require.Equal(t, "pi_e2e_1", created.PaymentIntent.ID)
	assert.Equal(t, int64(30000), created.PaymentIntent.Amount)

	// the session carries the intent, so the revision needs no explicit id
	booking["endDate"] = "2026-05-06T00:00:00Z"
	booking["totalPrice"] = 500
	res = s.do(t, http.MethodPost, "/v1/payment-intents", guest, map[string]any{"booking": booking})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Booking updated successfully", decodeAs[map[string]string](t, res)["message"])
	assert.Equal(t, 1, s.stripe.created)

	res = s.do(t, http.MethodGet, "/v1/me/bookings", guest, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	mine := decodeAs[[]domain.Booking](t, res)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(500), mine[0].TotalPrice)
	assert.Equal(t, "owner_1", mine[0].HotelOwnerID)
	assert.Equal(t, "guest_1@example.com", mine[0].UserEmail)
	assert.False(t, mine[0].PaymentStatus)

	res = s.do(t, http.MethodPatch, "/v1/bookings/pi_e2e_1/paid", guest, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	res = s.do(t, http.MethodPost, "/v1/payment-intents", guest, map[string]any{
		"booking": booking, "payment_intent_id": "pi_e2e_1",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = s.do(t, http.MethodGet, "/v1/hotels/"+hotel.ID+"/bookings", owner, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	forHotel := decodeAs[[]domain.Booking](t, res)
	require.Len(t, forHotel, 1)
	assert.True(t, forHotel[0].PaymentStatus)

	// a paid intent that ends up on the orphan queue is left alone
	ctx := context.Background()
	require.NoError(t, s.orphans.Push(ctx, "pi_e2e_1"))
	require.NoError(t, s.orphans.Push(ctx, "pi_lost"))
	rep, err := app.NewOrphanSweeper(s.orphans, s.payments, s.repo, 2).SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 1, rep.Cancelled)
	assert.Equal(t, []string{"pi_lost"}, s.stripe.cancels)

	res = s.do(t, http.MethodDelete, "/v1/hotels/"+hotel.ID, owner, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.ElementsMatch(t, []string{"hotel.jpg", "room.jpg"}, s.images.deleted)
	mine, err = s.repo.ListByUser(ctx, "guest_1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}
