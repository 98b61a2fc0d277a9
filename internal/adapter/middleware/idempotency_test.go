package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl))
	e.POST("/invoices", handler)
	e.GET("/invoices", handler) // non-mutating bypass
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func validHeaders() map[string]string {
	return map[string]string{
		"X-Request-Id":     strings.Repeat("a", 32),
		"X-Request-At":     time.Now().UTC().Format(time.RFC3339),
		"X-Wallet-Address": "rWALLET",
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/invoices", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)

	cases := map[string]func(h map[string]string){
		"missing request id": func(h map[string]string) { delete(h, "X-Request-Id") },
		"invalid request id": func(h map[string]string) { h["X-Request-Id"] = "NOT-VALID" },
		"invalid request at": func(h map[string]string) { h["X-Request-At"] = "not-a-time" },
		"skewed request at": func(h map[string]string) {
			h["X-Request-At"] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		},
		"missing wallet": func(h map[string]string) { delete(h, "X-Wallet-Address") },
	}
	for name, mutate := range cases {
		h := validHeaders()
		mutate(h)
		rec := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader([]byte(`{"x":1}`)), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", name, rec.Code)
		}
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()

	handlerCalls := 0
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		handlerCalls++
		return c.JSON(http.StatusCreated, map[string]any{"ok": true})
	})

	h := validHeaders()
	body := []byte(`{"amount":"10000"}`)

	rec1 := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader(body), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request: want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// same headers, same body: replay without touching the handler again
	rec2 := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader(body), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay: want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if handlerCalls != 1 {
		t.Fatalf("handler calls: want 1, got %d", handlerCalls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	body := []byte(`{"x":1}`)

	// seed an in-progress entry so SetNX fails and replay is impossible
	key := buildKey(http.MethodPost, "/invoices", h["X-Wallet-Address"], h["X-Request-Id"])
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   h["X-Request-Id"],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   nowUTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader(body), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress: want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	h := validHeaders()
	body1 := []byte(`{"x":1}`)
	body2 := []byte(`{"x":2}`)

	key := buildKey(http.MethodPost, "/invoices", h["X-Wallet-Address"], h["X-Request-Id"])
	final := idempEntry{
		InProgress:  false,
		Code:        http.StatusCreated,
		Body:        []byte(`{"ok":true}`),
		BodySHA256:  bodyHash(body1),
		RequestID:   h["X-Request-Id"],
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   nowUTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader(body2), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same request id: want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → fast SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, "/invoices", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable: want 503, got %d", rec.Code)
	}
}
