package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	cookieToken     = "token"
	cookieUserType  = "userType"
	cookieFlash     = "flash"
	cookieWidget    = "chat_widget"
	cookieAssistant = "chat_assistant"

	sessionMaxAge = 30 * 24 * 3600
)

// session is what the browser remembers between requests.
type session struct {
	Token    string
	UserType string
}

// Authenticated holds only when both cookies are present and the user type
// is one the site knows.
func (s session) Authenticated() bool {
	return s.Token != "" && model.ValidUserType(s.UserType)
}

func sessionFrom(c *gin.Context) session {
	tok, _ := c.Cookie(cookieToken)
	ut, _ := c.Cookie(cookieUserType)
	return session{Token: tok, UserType: ut}
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", false, true)
}

func saveSession(c *gin.Context, s session) {
	setCookie(c, cookieToken, s.Token, sessionMaxAge)
	setCookie(c, cookieUserType, s.UserType, sessionMaxAge)
}

func clearSession(c *gin.Context) {
	setCookie(c, cookieToken, "", -1)
	setCookie(c, cookieUserType, "", -1)
}

// setFlash stores a notice for the next rendered page.
func setFlash(c *gin.Context, n service.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	setCookie(c, cookieFlash, base64.RawURLEncoding.EncodeToString(data), 60)
}

// popFlash returns the pending notice, if any, and clears it.
func popFlash(c *gin.Context) *service.Notice {
	raw, err := c.Cookie(cookieFlash)
	if err != nil || raw == "" {
		return nil
	}
	setCookie(c, cookieFlash, "", -1)
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var n service.Notice
	if json.Unmarshal(data, &n) != nil || n.Title == "" {
		return nil
	}
	return &n
}

// landingPath is where a user type is sent after signing in or up.
func landingPath(userType string) string {
	if userType == model.UserTypeOrganization {
		return "/requests"
	}
	return "/dashboard"
}
