package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

func (m *Manager) sameSite() http.SameSite {
	// browsers drop SameSite=None cookies that are not Secure
	if m.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetRefresh stores the refresh token in the role-scoped cookie, e.g. "studentJWT".
func (m *Manager) SetRefresh(c *gin.Context, name, refresh string, exp time.Time) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(name, refresh, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *Manager) Clear(c *gin.Context, name string) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(name, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
