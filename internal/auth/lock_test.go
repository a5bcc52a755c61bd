package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func newLockRouter(t *testing.T, passcode string) *gin.Engine {
	t.Helper()

	var hash string
	if passcode != "" {
		var err error
		hash, err = HashPasscode(passcode, bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
	}

	sm := setupSessionManager(t)
	lock := NewLock(sm, hash, nil)

	router := gin.New()
	router.Use(sm.SessionLoadSave(), lock.Middleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/entries", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/unlock", lock.Limiter().Middleware(), lock.UnlockHandler())
	router.POST("/lock", lock.LockHandler())
	return router
}

func unlock(router *gin.Engine, passcode string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/unlock", strings.NewReader(`{"passcode":"`+passcode+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLock_Disabled(t *testing.T) {
	router := newLockRouter(t, "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/entries", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 without a passcode, got %d", rr.Code)
	}
}

func TestLock_BlocksUntilUnlocked(t *testing.T) {
	router := newLockRouter(t, "2580")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 while locked, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Health should stay public, got %d", rr.Code)
	}

	if rr := unlock(router, "1111"); rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong passcode, got %d", rr.Code)
	}

	rr = unlock(router, "2580")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 for right passcode, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 once unlocked, got %d", rr.Code)
	}
}

func TestLock_ThrottlesGuessing(t *testing.T) {
	router := newLockRouter(t, "2580")

	var last int
	for i := 0; i < DefaultAttemptLimitConfig().MaxAttempts; i++ {
		last = unlock(router, "0000").Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("Expected 429 on the final failed attempt, got %d", last)
	}

	if rr := unlock(router, "2580"); rr.Code != http.StatusTooManyRequests {
		t.Errorf("Locked-out client is rejected even with the right passcode, got %d", rr.Code)
	}
}

func TestLock_MissingPasscode(t *testing.T) {
	router := newLockRouter(t, "2580")

	req := httptest.NewRequest(http.MethodPost, "/unlock", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}
