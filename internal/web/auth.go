package web

import (
	"fmt"
	"net/http"
	"strings"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

var (
	volunteerSignUpFields    = []string{"firstName", "lastName", "email", "password", "confirmPassword", "skills", "bio"}
	organizationSignUpFields = []string{"orgName", "email", "phone", "password", "confirmPassword", "orgType", "description", "website"}
)

// tabType reads the account type tab, falling back to volunteer.
func tabType(v string) string {
	if model.ValidUserType(v) {
		return v
	}
	return model.UserTypeVolunteer
}

func (s *Site) SignIn(c *gin.Context) {
	s.render(c, http.StatusOK, page{Title: "Sign In", Body: signInPage(tabType(c.Query("type")), "")})
}

// SubmitSignIn calls the login endpoint and, on success, remembers the token
// and the tab's account type before sending the user to their landing page.
func (s *Site) SubmitSignIn(c *gin.Context) {
	userType := tabType(c.PostForm("type"))
	email := strings.TrimSpace(c.PostForm("email"))
	log := logger.FromContext(c.Request.Context())

	resp, err := s.authAPI.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		log.Warn("web.sign_in.fail", "email", email, "type", userType, "err", err)
		s.render(c, http.StatusOK, page{
			Title:  "Sign In",
			Body:   signInPage(userType, email),
			Notice: &service.Notice{Title: "Login Failed", Description: err.Error(), Variant: "destructive"},
		})
		return
	}

	saveSession(c, session{Token: resp.Token, UserType: userType})
	setFlash(c, service.Notice{
		Title:       "Signed in successfully!",
		Description: fmt.Sprintf("Welcome back, %s!", userType),
	})
	log.Info("web.sign_in.ok", "email", email, "type", userType)
	redirect(c, landingPath(userType))
}

func (s *Site) SignOut(c *gin.Context) {
	clearSession(c)
	setFlash(c, service.Notice{Title: "Signed out", Description: "See you soon!"})
	redirect(c, "/")
}

func (s *Site) SignUp(c *gin.Context) {
	s.render(c, http.StatusOK, page{Title: "Sign Up", Body: signUpPage(tabType(c.Query("type")), nil)})
}

// SubmitSignUp registers the account through the auth API. The terms
// checkbox must be ticked before anything is sent.
func (s *Site) SubmitSignUp(c *gin.Context) {
	userType := tabType(c.PostForm("type"))
	names := volunteerSignUpFields
	if userType == model.UserTypeOrganization {
		names = organizationSignUpFields
	}
	fields := make(map[string]string, len(names))
	for _, n := range names {
		if v := strings.TrimSpace(c.PostForm(n)); v != "" {
			fields[n] = v
		}
	}

	fail := func(title, desc string) {
		s.render(c, http.StatusOK, page{
			Title:  "Sign Up",
			Body:   signUpPage(userType, fields),
			Notice: &service.Notice{Title: title, Description: desc, Variant: "destructive"},
		})
	}
	if c.PostForm("terms") == "" {
		fail("Sign up failed", "Please accept the Terms of Service and Privacy Policy.")
		return
	}
	if err := s.authAPI.Register(c.Request.Context(), userType, fields); err != nil {
		logger.FromContext(c.Request.Context()).Warn("web.sign_up.fail", "type", userType, "err", err)
		fail("Sign up failed", err.Error())
		return
	}

	setFlash(c, service.Notice{
		Title:       "Account created successfully!",
		Description: fmt.Sprintf("Welcome to VolunteerConnect, %s!", userType),
	})
	redirect(c, landingPath(userType))
}

func tabs(base, active string) g.Node {
	tab := func(userType, text string) g.Node {
		cls := "tab"
		if userType == active {
			cls += " active"
		}
		return h.A(h.Class(cls), h.Href(base+"?type="+userType), g.Text(text))
	}
	return h.Div(h.Class("tabs"),
		tab(model.UserTypeVolunteer, "Volunteer"),
		tab(model.UserTypeOrganization, "Organization"),
	)
}

func signInPage(userType, email string) g.Node {
	placeholder := "you@example.com"
	button := "Sign In as Volunteer"
	if userType == model.UserTypeOrganization {
		placeholder = "organization@example.com"
		button = "Sign In as Organization"
	}
	return h.Section(h.Class("auth"),
		h.H1(g.Text("Welcome Back")),
		h.P(h.Class("muted"), g.Text("Sign in to your account to continue your journey")),
		tabs("/sign-in", userType),
		form(h.Method("post"), h.Action("/sign-in"), h.Class("panel"),
			h.Input(h.Type("hidden"), h.Name("type"), h.Value(userType)),
			field("Email", "email", h.Input(h.ID("email"), h.Type("email"), h.Name("email"),
				h.Placeholder(placeholder), h.Value(email), h.Required())),
			field("Password", "password", h.Input(h.ID("password"), h.Type("password"), h.Name("password"), h.Required())),
			h.Button(h.Type("submit"), h.Class("btn btn-block"), g.Text(button)),
			h.P(h.Class("muted"), g.Text("Don't have an account? "),
				h.A(h.Href("/sign-up?type="+userType), g.Text("Sign up"))),
		),
	)
}

var (
	skillAreas = []option{
		{"", "Select a skill area"},
		{"technology", "Technology"},
		{"creative", "Creative"},
		{"business", "Business"},
		{"education", "Education"},
		{"community", "Community"},
		{"health", "Health"},
	}
	orgTypes = []option{
		{"", "Select organization type"},
		{"nonprofit", "Nonprofit"},
		{"education", "Educational"},
		{"government", "Government"},
		{"community", "Community Group"},
		{"other", "Other"},
	}
)

// signUpPage renders the form for userType. Password fields are never
// refilled.
func signUpPage(userType string, v map[string]string) g.Node {
	text := func(lbl, name, typ string, required bool) g.Node {
		return field(lbl, name, h.Input(h.ID(name), h.Name(name), h.Type(typ), h.Value(v[name]), g.If(required, h.Required())))
	}
	password := func(lbl, name string) g.Node {
		return field(lbl, name, h.Input(h.ID(name), h.Name(name), h.Type("password"), h.Required()))
	}

	var fields g.Node
	button := "Sign Up as Volunteer"
	if userType == model.UserTypeOrganization {
		button = "Sign Up as Organization"
		fields = g.Group([]g.Node{
			text("Organization Name", "orgName", "text", true),
			text("Email", "email", "email", true),
			text("Phone Number", "phone", "tel", true),
			password("Password", "password"),
			password("Confirm Password", "confirmPassword"),
			field("Organization Type", "orgType", h.Select(h.ID("orgType"), h.Name("orgType"), options(orgTypes, v["orgType"]))),
			field("Organization Description", "description", h.Textarea(h.ID("description"), h.Name("description"),
				h.Placeholder("Tell us about your organization, mission, and the types of volunteers you're looking for"),
				g.Text(v["description"]))),
			text("Website (optional)", "website", "url", false),
		})
	} else {
		fields = g.Group([]g.Node{
			text("First Name", "firstName", "text", true),
			text("Last Name", "lastName", "text", true),
			text("Email", "email", "email", true),
			password("Password", "password"),
			password("Confirm Password", "confirmPassword"),
			field("Skills (Select your primary skill area)", "skills", h.Select(h.ID("skills"), h.Name("skills"), options(skillAreas, v["skills"]))),
			field("Short Bio (Tell us about yourself)", "bio", h.Textarea(h.ID("bio"), h.Name("bio"),
				h.Placeholder("Share your experience, interests, and why you want to volunteer"),
				g.Text(v["bio"]))),
		})
	}

	return h.Section(h.Class("auth"),
		h.H1(g.Text("Create an Account")),
		h.P(h.Class("muted"), g.Text("Join our community and start your volunteering journey")),
		tabs("/sign-up", userType),
		form(h.Method("post"), h.Action("/sign-up"), h.Class("panel"),
			h.Input(h.Type("hidden"), h.Name("type"), h.Value(userType)),
			fields,
			h.Div(h.Class("field checkbox"),
				h.Input(h.ID("terms"), h.Type("checkbox"), h.Name("terms"), h.Value("on"), h.Required()),
				label(g.Attr("for", "terms"), g.Text("I agree to the Terms of Service and Privacy Policy")),
			),
			h.Button(h.Type("submit"), h.Class("btn btn-block"), g.Text(button)),
			h.P(h.Class("muted"), g.Text("Already have an account? "),
				h.A(h.Href("/sign-in?type="+userType), g.Text("Sign in"))),
		),
	)
}
