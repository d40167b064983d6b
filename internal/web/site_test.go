package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"volunteer-connect/internal/handler"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() { gin.SetMode(gin.TestMode) }

type siteEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	chats  *service.ChatService
	tokens *service.TokenIssuer
	auth   *service.AuthService
	triage *service.TriageService
}

func newSiteEnv(t *testing.T, authBaseURL string) *siteEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, service.AutoMigrate(db))

	tokens := service.NewTokenIssuer("test-secret", time.Hour)
	auth := service.NewAuthService(db, tokens)
	chats := service.NewChatService(50*time.Millisecond, time.Minute)
	triage := service.NewTriageService(time.Hour)

	r := gin.New()
	New(Deps{
		AuthAPI:  service.NewAuthClient(authBaseURL),
		Accounts: auth,
		Tokens:   tokens,
		Chats:    chats,
		Triage:   triage,
		Contact:  service.NewContactService(db),
	}).Register(r)
	return &siteEnv{engine: r, db: db, chats: chats, tokens: tokens, auth: auth, triage: triage}
}

func (e *siteEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *siteEnv) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// fakeAuthAPI answers every request with status and body and records the
// JSON payloads it received.
type fakeAuthAPI struct {
	*httptest.Server
	mu       sync.Mutex
	paths    []string
	payloads []map[string]any
}

func newFakeAuthAPI(t *testing.T, status int, body string) *fakeAuthAPI {
	t.Helper()
	f := &fakeAuthAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var m map[string]any
		json.Unmarshal(data, &m)
		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path)
		f.payloads = append(f.payloads, m)
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAuthAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func TestSignInStoresSessionAndRedirects(t *testing.T) {
	api := newFakeAuthAPI(t, http.StatusOK, `{"token":"abc"}`)
	e := newSiteEnv(t, api.URL)

	w := e.post("/sign-in", url.Values{"type": {"organization"}, "email": {"org@example.org"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/requests", w.Header().Get("Location"))

	tok := responseCookie(w, cookieToken)
	require.NotNil(t, tok)
	assert.Equal(t, "abc", tok.Value)
	ut := responseCookie(w, cookieUserType)
	require.NotNil(t, ut)
	assert.Equal(t, "organization", ut.Value)

	require.Len(t, api.payloads, 1)
	assert.Equal(t, "/api/auth/login", api.paths[0])
	assert.Equal(t, map[string]any{"email": "org@example.org", "password": "pw"}, api.payloads[0])

	// the flash shows up on the landing page
	page := e.get("/requests", tok, ut, responseCookie(w, cookieFlash))
	assert.Contains(t, page.Body.String(), "Signed in successfully!")
	assert.Contains(t, page.Body.String(), "Welcome back, organization!")
}

func TestSignInVolunteerLandsOnDashboard(t *testing.T) {
	api := newFakeAuthAPI(t, http.StatusOK, `{"token":"abc"}`)
	e := newSiteEnv(t, api.URL)

	w := e.post("/sign-in", url.Values{"type": {"volunteer"}, "email": {"v@example.org"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestSignInRejectedKeepsForm(t *testing.T) {
	api := newFakeAuthAPI(t, http.StatusUnauthorized, `{"error":"invalid credentials"}`)
	e := newSiteEnv(t, api.URL)

	w := e.post("/sign-in", url.Values{"type": {"organization"}, "email": {"org@example.org"}, "password": {"bad"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Nil(t, responseCookie(w, cookieToken))
	assert.Nil(t, responseCookie(w, cookieUserType))

	body := w.Body.String()
	assert.Contains(t, body, "Login Failed")
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="org@example.org"`)
}

func TestSignInUnreachableAPI(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	e := newSiteEnv(t, dead.URL)

	w := e.post("/sign-in", url.Values{"email": {"a@example.org"}, "password": {"pw"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, responseCookie(w, cookieToken))
	assert.Contains(t, w.Body.String(), "Login Failed")
}

func TestSignUpRequiresTerms(t *testing.T) {
	api := newFakeAuthAPI(t, http.StatusCreated, `{"id":1,"userType":"volunteer"}`)
	e := newSiteEnv(t, api.URL)

	form := url.Values{"type": {"volunteer"}, "firstName": {"Ada"}, "lastName": {"L"}, "email": {"ada@example.org"}, "password": {"pw"}}
	w := e.post("/sign-up", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, api.calls())
	assert.Contains(t, w.Body.String(), "Terms of Service")
	assert.Contains(t, w.Body.String(), `value="Ada"`)

	form.Set("terms", "on")
	w = e.post("/sign-up", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	require.Equal(t, 1, api.calls())
	assert.Equal(t, "/api/auth/register/volunteer", api.paths[0])
	assert.Equal(t, true, api.payloads[0]["termsAccepted"])
	assert.Equal(t, "Ada", api.payloads[0]["firstName"])
	assert.NotContains(t, api.payloads[0], "orgName")
}

func TestSignUpAgainstAuthAPI(t *testing.T) {
	// serve the real auth API so the forms exercise the whole round trip
	e := newSiteEnv(t, "")
	api := handler.NewRouter(handler.Deps{Auth: e.auth, Tokens: e.tokens, Chats: e.chats, Triage: service.NewTriageService(time.Hour)})
	srv := httptest.NewServer(api)
	defer srv.Close()
	e = withAuthAPI(t, e, srv.URL)

	w := e.post("/sign-up", url.Values{
		"type": {"organization"}, "orgName": {"Food Bank"}, "email": {"org@example.org"},
		"phone": {"555-0100"}, "password": {"pw"}, "confirmPassword": {"pw"}, "terms": {"on"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/requests", w.Header().Get("Location"))

	w = e.post("/sign-up", url.Values{
		"type": {"organization"}, "orgName": {"Food Bank"}, "email": {"org@example.org"},
		"phone": {"555-0100"}, "password": {"pw"}, "terms": {"on"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign up failed")

	w = e.post("/sign-in", url.Values{"type": {"organization"}, "email": {"org@example.org"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	tok := responseCookie(w, cookieToken)
	require.NotNil(t, tok)

	profile := e.get("/profile", tok, responseCookie(w, cookieUserType))
	assert.Contains(t, profile.Body.String(), "Food Bank")
}

// withAuthAPI rebuilds the site's engine pointing at baseURL while keeping
// the same stores.
func withAuthAPI(t *testing.T, e *siteEnv, baseURL string) *siteEnv {
	t.Helper()
	r := gin.New()
	New(Deps{
		AuthAPI:  service.NewAuthClient(baseURL),
		Accounts: e.auth,
		Tokens:   e.tokens,
		Chats:    e.chats,
		Triage:   service.NewTriageService(time.Hour),
		Contact:  service.NewContactService(e.db),
	}).Register(r)
	return &siteEnv{engine: r, db: e.db, chats: e.chats, tokens: e.tokens, auth: e.auth}
}

func TestNavLinks(t *testing.T) {
	labels := func(s session) []string {
		var out []string
		for _, it := range navLinks(s) {
			out = append(out, it.Label)
		}
		return out
	}
	base := []string{"Home", "About", "Services", "Contact"}

	assert.Equal(t, base, labels(session{}))
	assert.Equal(t, base, labels(session{UserType: model.UserTypeOrganization}))
	assert.Equal(t, append(base, "Dashboard"), labels(session{Token: "t", UserType: model.UserTypeVolunteer}))
	assert.Equal(t, append(base, "Requests", "Chatbot"), labels(session{Token: "t", UserType: model.UserTypeOrganization}))
	assert.Equal(t, base, labels(session{Token: "t", UserType: "admin"}))
}

func TestNavbarFollowsCookies(t *testing.T) {
	e := newSiteEnv(t, "")

	anon := e.get("/").Body.String()
	assert.Contains(t, anon, `href="/sign-in"`)
	assert.NotContains(t, anon, `href="/requests"`)

	signedIn := e.get("/",
		&http.Cookie{Name: cookieToken, Value: "t"},
		&http.Cookie{Name: cookieUserType, Value: model.UserTypeOrganization},
	).Body.String()
	assert.Contains(t, signedIn, `href="/requests"`)
	assert.Contains(t, signedIn, `href="/chatbot"`)
	assert.Contains(t, signedIn, "Sign Out")
	assert.NotContains(t, signedIn, `href="/dashboard"`)
}

func TestSignOutClearsSession(t *testing.T) {
	e := newSiteEnv(t, "")
	w := e.post("/sign-out", nil, &http.Cookie{Name: cookieToken, Value: "t"})
	require.Equal(t, http.StatusSeeOther, w.Code)
	tok := responseCookie(w, cookieToken)
	require.NotNil(t, tok)
	assert.True(t, tok.MaxAge < 0)
}

func TestRequestsApproveAndReject(t *testing.T) {
	e := newSiteEnv(t, "")
	session := e.sessionCookie(t, 1)

	w := e.post("/requests/1/approve", nil, session)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/requests", w.Header().Get("Location"))
	flash := responseCookie(w, cookieFlash)
	require.NotNil(t, flash)

	page := e.get("/requests", session, flash).Body.String()
	assert.Contains(t, page, "Request approved!")
	assert.Contains(t, page, "Social Media Campaign project.")
	assert.Contains(t, page, "Pending Requests (2)")
	assert.Contains(t, page, "Approved (1)")
	assert.Contains(t, page, "Completed (0)")
	assert.Contains(t, page, "No completed projects yet.")

	// stale id: nothing changes and no notice is queued
	w = e.post("/requests/1/reject", nil, session)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Nil(t, responseCookie(w, cookieFlash))

	w = e.post("/requests/3/reject", nil, session)
	flash = responseCookie(w, cookieFlash)
	require.NotNil(t, flash)
	page = e.get("/requests", session, flash).Body.String()
	assert.Contains(t, page, "Request rejected")
	assert.Contains(t, page, "Pending Requests (1)")

	// another account still sees the seeded board
	other := e.get("/requests", e.sessionCookie(t, 2)).Body.String()
	assert.Contains(t, other, "Pending Requests (3)")
}

func (e *siteEnv) sessionCookie(t *testing.T, accountID int) *http.Cookie {
	t.Helper()
	tok, err := e.tokens.Issue(&model.Account{ID: accountID, Email: "org@example.org", UserType: model.UserTypeOrganization})
	require.NoError(t, err)
	return &http.Cookie{Name: cookieToken, Value: tok}
}

func TestRequestsUnverifiedTokensShareOneBoard(t *testing.T) {
	e := newSiteEnv(t, "")
	for i := range 50 {
		w := e.get("/requests", &http.Cookie{Name: cookieToken, Value: fmt.Sprintf("forged-%d", i)})
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, e.triage.Len())

	e.get("/requests", e.sessionCookie(t, 1))
	assert.Equal(t, 2, e.triage.Len())
}

func TestRequestsSearch(t *testing.T) {
	e := newSiteEnv(t, "")
	page := e.get("/requests?q=fundrais").Body.String()
	assert.Contains(t, page, "Sarah Johnson")
	assert.NotContains(t, page, "Emily Chen")
	assert.Contains(t, page, "Pending Requests (1)")
}

func TestProfileEditSavesAccount(t *testing.T) {
	e := newSiteEnv(t, "")
	ctx := t.Context()
	acc, err := e.auth.RegisterVolunteer(ctx, model.VolunteerRegistration{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org", Password: "pw", TermsAccepted: true,
	})
	require.NoError(t, err)
	_, err = e.auth.RegisterVolunteer(ctx, model.VolunteerRegistration{
		FirstName: "Bo", LastName: "B", Email: "bo@example.org", Password: "pw", TermsAccepted: true,
	})
	require.NoError(t, err)
	tok, err := e.tokens.Issue(acc)
	require.NoError(t, err)
	session := &http.Cookie{Name: cookieToken, Value: tok}

	view := e.get("/profile", session).Body.String()
	assert.Contains(t, view, `href="/profile?edit=1"`)

	edit := e.get("/profile?edit=1", session).Body.String()
	assert.Contains(t, edit, `action="/profile"`)
	assert.Contains(t, edit, `value="Ada"`)
	assert.Contains(t, edit, `value="ada@example.org"`)

	form := url.Values{
		"firstName": {"Augusta"}, "lastName": {"Lovelace"}, "email": {"ada@example.org"},
		"phone": {"555-0101"}, "location": {"London"}, "skills": {"technology"}, "about": {"Analyst"},
	}
	w := e.post("/profile", form, session)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile", w.Header().Get("Location"))
	flash := responseCookie(w, cookieFlash)
	require.NotNil(t, flash)

	page := e.get("/profile", session, flash).Body.String()
	assert.Contains(t, page, "Profile updated")
	assert.Contains(t, page, "Your profile has been successfully updated.")
	assert.Contains(t, page, "Augusta Lovelace")
	assert.Contains(t, page, "London")

	got, err := e.auth.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "555-0101", got.Phone)
	assert.Equal(t, "Analyst", got.Bio)

	form.Set("email", "bo@example.org")
	w = e.post("/profile", form, session)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Profile not saved")
	assert.Nil(t, responseCookie(w, cookieFlash))

	form.Set("email", "not-an-email")
	w = e.post("/profile", form, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid email address.")
}

func TestProfileSampleSaveOnlyConfirms(t *testing.T) {
	e := newSiteEnv(t, "")

	edit := e.get("/profile?edit=1").Body.String()
	assert.Contains(t, edit, `value="john.doe@example.com"`)

	w := e.post("/profile", url.Values{"email": {"john.doe@example.com"}, "location": {"Boston"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	flash := responseCookie(w, cookieFlash)
	require.NotNil(t, flash)
	page := e.get("/profile", flash).Body.String()
	assert.Contains(t, page, "Profile updated")
	assert.Contains(t, page, "New York, NY")

	var n int64
	require.NoError(t, e.db.Model(&model.Account{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestChatbotConversation(t *testing.T) {
	e := newSiteEnv(t, "")

	w := e.get("/chatbot")
	require.Equal(t, http.StatusOK, w.Code)
	conv := responseCookie(w, cookieAssistant)
	require.NotNil(t, conv)
	assert.Contains(t, w.Body.String(), html.EscapeString(service.Greeting(service.ChatAssistant)))
	assert.NotContains(t, w.Body.String(), `http-equiv="refresh"`)

	w = e.post("/chatbot", url.Values{"text": {"Need event volunteers"}}, conv)
	require.Equal(t, http.StatusSeeOther, w.Code)

	loading := e.get("/chatbot", conv).Body.String()
	assert.Contains(t, loading, "Need event volunteers")
	assert.Contains(t, loading, `http-equiv="refresh"`)
	assert.Contains(t, loading, "disabled")

	require.Eventually(t, func() bool {
		body := e.get("/chatbot", conv).Body.String()
		return !strings.Contains(body, `http-equiv="refresh"`)
	}, time.Second, 5*time.Millisecond)

	c, err := e.chats.Get(conv.Value)
	require.NoError(t, err)
	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, service.Replies(service.ChatAssistant), msgs[2].Text)

	w = e.post("/chatbot/reset", nil, conv)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Len(t, c.Messages(), 1)
}

func TestChatbotSuggestionPrefills(t *testing.T) {
	e := newSiteEnv(t, "")
	body := e.get("/chatbot?q=" + url.QueryEscape(service.SuggestedQuestions[0])).Body.String()
	assert.Contains(t, body, `value="`+service.SuggestedQuestions[0]+`"`)
}

func TestWidgetSubmitAndClose(t *testing.T) {
	e := newSiteEnv(t, "")

	closed := e.get("/about").Body.String()
	assert.Contains(t, closed, service.Greeting(service.ChatWidget))
	assert.NotContains(t, closed, "<details class=\"chat-widget\" open")

	w := e.post("/chat/widget", url.Values{"text": {"hello"}, "return": {"/about"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/about", w.Header().Get("Location"))
	conv := responseCookie(w, cookieWidget)
	require.NotNil(t, conv)
	assert.Equal(t, 1, e.chats.Len())

	open := e.get("/about", conv).Body.String()
	assert.Contains(t, open, "hello")
	assert.Contains(t, open, `<details class="chat-widget" open>`)

	w = e.post("/chat/widget/close", url.Values{"return": {"/about"}}, conv)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, e.chats.Len())
	cleared := responseCookie(w, cookieWidget)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}

func TestWidgetCloseAfterEviction(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	e := newSiteEnv(t, "")
	w := e.post("/chat/widget", url.Values{"text": {"hello"}, "return": {"/about"}})
	conv := responseCookie(w, cookieWidget)
	require.NotNil(t, conv)
	require.NoError(t, e.chats.Delete(conv.Value))

	w = e.post("/chat/widget/close", url.Values{"return": {"/about"}}, conv)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/about", w.Header().Get("Location"))
	cleared := responseCookie(w, cookieWidget)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
	assert.NotContains(t, buf.String(), "web.widget.close")
}

func TestWidgetRejectsForeignReturn(t *testing.T) {
	e := newSiteEnv(t, "")
	w := e.post("/chat/widget", url.Values{"text": {"hi"}, "return": {"//evil.example"}})
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestContactStoresMessage(t *testing.T) {
	e := newSiteEnv(t, "")

	w := e.post("/contact", url.Values{"firstName": {"Ada"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message not sent")

	w = e.post("/contact", url.Values{
		"firstName": {"Ada"}, "lastName": {"L"}, "email": {"ADA@example.org"}, "message": {"Hello there"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, responseCookie(w, cookieFlash))

	var stored []model.ContactMessage
	require.NoError(t, e.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "ada@example.org", stored[0].Email)
	assert.Equal(t, "general", stored[0].InquiryType)
}

func TestNotFound(t *testing.T) {
	e := newSiteEnv(t, "")

	w := e.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")

	w = e.get("/api/no-such-endpoint")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestFlashIsShownOnce(t *testing.T) {
	e := newSiteEnv(t, "")
	w := e.post("/sign-out", nil)
	flash := responseCookie(w, cookieFlash)
	require.NotNil(t, flash)

	page := e.get("/", flash)
	assert.Contains(t, page.Body.String(), "Signed out")
	cleared := responseCookie(page, cookieFlash)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)

	garbled := e.get("/", &http.Cookie{Name: cookieFlash, Value: "%%%"})
	assert.Equal(t, http.StatusOK, garbled.Code)
}
