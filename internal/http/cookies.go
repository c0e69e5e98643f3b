package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/gist-tracker/internal/security"
)

const authCookie = "auth_token"

// setAuthCookie stores the session token for the whole site. HttpOnly
// keeps scripts away from it; Secure is on in production only so local
// dev over plain http still works.
func (h *Handler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookie, token, int(security.TokenTTL.Seconds()), "/", "", h.Production, true)
}

func readAuthCookie(c *gin.Context) (string, bool) {
	v, err := c.Cookie(authCookie)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetCookie(authCookie, "", -1, "/", "", h.Production, true)
}
