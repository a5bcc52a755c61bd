package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	if sm.Cookie.Name != "diary_session" {
		t.Errorf("Expected cookie name 'diary_session', got '%s'", sm.Cookie.Name)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie should be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("Expected SameSiteStrictMode, got %v", sm.Cookie.SameSite)
	}
	if sm.Lifetime != time.Hour {
		t.Errorf("Expected lifetime 1h, got %v", sm.Lifetime)
	}
}

func newSessionRouter(sm *SessionManager) *gin.Engine {
	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.POST("/unlock", func(c *gin.Context) {
		if err := sm.Unlock(c.Request.Context(), time.Unix(1700000000, 0)); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		sm.AddWarning(c.Request.Context(), "Photos were too large to save.")
		c.Status(http.StatusOK)
	})
	router.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"unlocked": sm.IsUnlocked(c.Request.Context()),
			"warnings": sm.PopWarnings(c.Request.Context()),
		})
	})
	router.POST("/lock", func(c *gin.Context) {
		_ = sm.Lock(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestSessionLifecycle(t *testing.T) {
	sm := setupSessionManager(t)
	router := newSessionRouter(sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/unlock", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected a session cookie after unlock")
	}

	get := func() string {
		req := httptest.NewRequest(http.MethodGet, "/state", nil)
		req.AddCookie(cookies[0])
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Body.String()
	}

	first := get()
	if first != `{"unlocked":true,"warnings":["Photos were too large to save."]}` {
		t.Errorf("Unexpected first state: %s", first)
	}
	second := get()
	if second != `{"unlocked":true,"warnings":null}` {
		t.Errorf("Warnings should be shown once, got: %s", second)
	}

	req := httptest.NewRequest(http.MethodPost, "/lock", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rr.Code)
	}

	if state := get(); state != `{"unlocked":false,"warnings":null}` {
		t.Errorf("Expected locked session after lock, got: %s", state)
	}
}

func TestSessionLoadSave_NoCookieWithoutChanges(t *testing.T) {
	sm := setupSessionManager(t)
	router := newSessionRouter(sm)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))

	if len(rr.Result().Cookies()) != 0 {
		t.Error("Untouched sessions should not set a cookie")
	}
}
