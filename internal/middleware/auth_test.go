package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubParser struct {
	userID int
	err    error
}

func (p stubParser) ParseToken(string) (int, error) {
	return p.userID, p.err
}

func newRouter(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(parser), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetInt(ContextUserKey)})
	})
	return r
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newRouter(stubParser{userID: 1})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	r := newRouter(stubParser{err: errors.New("expired")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	r := newRouter(stubParser{userID: 42})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "session-token"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"id":42}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	r := newRouter(stubParser{userID: 7})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "bearer session-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
}
