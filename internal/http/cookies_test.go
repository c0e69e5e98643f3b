package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetAuthCookie(t *testing.T) {
	c, w := testContext(t)
	h := &Handler{Production: true}
	h.setAuthCookie(c, "the-token")

	ck := findCookie(t, w, authCookie)
	assert.Equal(t, "the-token", ck.Value)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 86400, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
}

func TestSetAuthCookieDevNotSecure(t *testing.T) {
	c, w := testContext(t)
	h := &Handler{Production: false}
	h.setAuthCookie(c, "t")
	assert.False(t, findCookie(t, w, authCookie).Secure)
}

func TestReadAuthCookie(t *testing.T) {
	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: authCookie, Value: "present"})

	v, ok := readAuthCookie(c)
	require.True(t, ok)
	assert.Equal(t, "present", v)

	c2, _ := testContext(t)
	_, ok = readAuthCookie(c2)
	assert.False(t, ok)
}

func TestClearAuthCookie(t *testing.T) {
	c, w := testContext(t)
	h := &Handler{}
	h.clearAuthCookie(c)

	ck := findCookie(t, w, authCookie)
	assert.Empty(t, ck.Value)
	assert.Negative(t, ck.MaxAge)
}
