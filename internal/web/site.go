// Package web renders the VolunteerConnect site: the marketing pages, the
// sign-in and sign-up forms, the organization's request board, the chatbot
// page and the chat widget shown on every page.
package web

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	// AuthAPI reaches the login and registration endpoints over HTTP.
	AuthAPI  *service.AuthClient
	Accounts *service.AuthService
	Tokens   *service.TokenIssuer
	Chats    *service.ChatService
	Triage   *service.TriageService
	Contact  *service.ContactService
	Static   fs.FS
}

type Site struct {
	authAPI  *service.AuthClient
	accounts *service.AuthService
	tokens   *service.TokenIssuer
	chats    *service.ChatService
	triage   *service.TriageService
	contact  *service.ContactService
	static   fs.FS
}

func New(d Deps) *Site {
	return &Site{
		authAPI:  d.AuthAPI,
		accounts: d.Accounts,
		tokens:   d.Tokens,
		chats:    d.Chats,
		triage:   d.Triage,
		contact:  d.Contact,
		static:   d.Static,
	}
}

// Register mounts the site's pages and form handlers on r. Paths no route
// matches render the not-found page, except under /api where a JSON 404 is
// answered.
func (s *Site) Register(r *gin.Engine) {
	if s.static != nil {
		r.StaticFS("/static", http.FS(s.static))
	}

	r.GET("/", s.Home)
	r.GET("/about", s.About)
	r.GET("/services", s.Services)
	r.GET("/contact", s.Contact)
	r.POST("/contact", s.SubmitContact)
	r.GET("/dashboard", s.Dashboard)
	r.GET("/profile", s.Profile)
	r.POST("/profile", s.SaveProfile)

	r.GET("/sign-in", s.SignIn)
	r.POST("/sign-in", s.SubmitSignIn)
	r.GET("/sign-up", s.SignUp)
	r.POST("/sign-up", s.SubmitSignUp)
	r.POST("/sign-out", s.SignOut)

	r.GET("/requests", s.Requests)
	r.POST("/requests/:id/approve", s.ApproveRequest)
	r.POST("/requests/:id/reject", s.RejectRequest)

	r.GET("/chatbot", s.Chatbot)
	r.POST("/chatbot", s.SubmitChatbot)
	r.POST("/chatbot/reset", s.ResetChatbot)
	r.POST("/chat/widget", s.SubmitWidget)
	r.POST("/chat/widget/close", s.CloseWidget)

	r.NoRoute(s.NotFound)
}

func (s *Site) NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	logger.Warn("web.not_found", "path", path)
	s.render(c, http.StatusNotFound, page{Title: "Page Not Found", Body: notFoundPage()})
}

// currentAccount resolves the signed-in account when the session token was
// issued by this server. Tokens from another auth API resolve to nil.
func (s *Site) currentAccount(ctx context.Context, sess session) *model.Account {
	if s.tokens == nil || s.accounts == nil || sess.Token == "" {
		return nil
	}
	claims, err := s.tokens.Parse(sess.Token)
	if err != nil {
		return nil
	}
	a, err := s.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		return nil
	}
	return a
}

// safeReturn keeps redirects on this site.
func safeReturn(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
