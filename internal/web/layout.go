package web

import (
	"fmt"
	"net/http"
	"time"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type page struct {
	Title  string
	Body   g.Node
	Notice *service.Notice
	// Refresh reloads the page after the given seconds while a reply is pending.
	Refresh int
}

type navItem struct {
	Label    string
	Href     string
	Auth     bool
	UserType string
}

var navItems = []navItem{
	{Label: "Home", Href: "/"},
	{Label: "About", Href: "/about"},
	{Label: "Services", Href: "/services"},
	{Label: "Contact", Href: "/contact"},
	{Label: "Dashboard", Href: "/dashboard", Auth: true, UserType: model.UserTypeVolunteer},
	{Label: "Requests", Href: "/requests", Auth: true, UserType: model.UserTypeOrganization},
	{Label: "Chatbot", Href: "/chatbot", Auth: true, UserType: model.UserTypeOrganization},
}

// navLinks filters the navbar for the current session.
func navLinks(s session) []navItem {
	var out []navItem
	for _, it := range navItems {
		if !it.Auth || (s.Authenticated() && (it.UserType == "" || it.UserType == s.UserType)) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Site) render(c *gin.Context, status int, p page) {
	if p.Notice == nil {
		p.Notice = popFlash(c)
	}
	widget, widgetLoading := s.widget(c)
	if widgetLoading && p.Refresh == 0 {
		p.Refresh = 1
	}
	doc := document(c.Request.URL.RequestURI(), c.Request.URL.Path, sessionFrom(c), p, widget)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := doc.Render(c.Writer); err != nil {
		logger.FromContext(c.Request.Context()).Warn("web.render", "path", c.Request.URL.Path, "err", err)
	}
}

func document(self, path string, sess session, p page, widget g.Node) g.Node {
	title := "VolunteerConnect"
	if p.Title != "" {
		title = p.Title + " | VolunteerConnect"
	}
	var notice g.Node
	if p.Notice != nil {
		notice = noticeBox(p.Notice)
	}
	return h.Doctype(
		h.HTML(h.Lang("en"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.If(p.Refresh > 0, h.Meta(g.Attr("http-equiv", "refresh"), h.Content(refreshContent(p.Refresh, self)))),
				g.El("title", g.Text(title)),
				h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
			),
			h.Body(
				navbar(path, sess),
				notice,
				h.Main(h.Class("content"), p.Body),
				footer(),
				widget,
			),
		),
	)
}

func refreshContent(secs int, url string) string {
	return fmt.Sprintf("%d;url=%s", secs, url)
}

func navbar(path string, sess session) g.Node {
	return h.Nav(h.Class("navbar"),
		h.A(h.Class("brand"), h.Href("/"),
			h.Span(h.Class("brand-primary"), g.Text("Volunteer")),
			h.Span(h.Class("brand-secondary"), g.Text("Connect")),
		),
		h.Div(h.Class("nav-links"),
			g.Map(navLinks(sess), func(it navItem) g.Node {
				cls := "nav-link"
				if it.Href == path {
					cls += " active"
				}
				return h.A(h.Class(cls), h.Href(it.Href), g.Text(it.Label))
			}),
		),
		h.Div(h.Class("nav-account"),
			g.If(sess.Authenticated(), g.Group([]g.Node{
				h.A(h.Class("btn btn-ghost"), h.Href("/profile"), g.Text("Profile")),
				form(h.Method("post"), h.Action("/sign-out"), h.Class("inline"),
					h.Button(h.Type("submit"), h.Class("btn btn-outline"), g.Text("Sign Out")),
				),
			})),
			g.If(!sess.Authenticated(), g.Group([]g.Node{
				h.A(h.Class("btn btn-outline"), h.Href("/sign-in"), g.Text("Sign In")),
				h.A(h.Class("btn"), h.Href("/sign-up"), g.Text("Sign Up")),
			})),
		),
	)
}

func noticeBox(n *service.Notice) g.Node {
	cls := "notice"
	if n.Variant != "" {
		cls += " notice-" + n.Variant
	}
	return h.Div(h.Class(cls), g.Attr("role", "status"),
		h.Strong(g.Text(n.Title)),
		g.If(n.Description != "", h.P(g.Text(n.Description))),
	)
}

func footer() g.Node {
	return h.Footer(h.Class("footer"),
		h.Div(h.Class("footer-grid"),
			h.Div(
				h.H3(g.Text("About")),
				h.P(g.Text("Connecting passionate volunteers with organizations making a difference in our communities.")),
			),
			h.Div(
				h.H3(g.Text("Quick Links")),
				h.Ul(
					h.Li(h.A(h.Href("/about"), g.Text("About Us"))),
					h.Li(h.A(h.Href("/services"), g.Text("Our Services"))),
					h.Li(h.A(h.Href("/contact"), g.Text("Contact Us"))),
				),
			),
			h.Div(
				h.H3(g.Text("Contact")),
				h.Ul(
					h.Li(g.Text("123 Volunteer St, City, State 12345")),
					h.Li(g.Text("+1 (555) 123-4567")),
					h.Li(g.Text("info@volunteerconnect.com")),
				),
			),
		),
		h.P(h.Class("copyright"), g.Textf("© %d VolunteerConnect. All rights reserved.", time.Now().Year())),
	)
}

// messageList renders a conversation transcript with a typing indicator
// while a reply is pending.
func messageList(msgs []service.Message, loading bool) g.Node {
	return h.Div(h.Class("messages"),
		g.Map(msgs, func(m service.Message) g.Node {
			return h.Div(h.Class("message message-"+string(m.Sender)),
				h.P(g.Text(m.Text)),
				h.Span(h.Class("message-time"), g.Text(m.Timestamp.Format("3:04 PM"))),
			)
		}),
		g.If(loading, h.Div(h.Class("message message-bot typing"), g.Text("…"))),
	)
}

func form(children ...g.Node) g.Node  { return g.El("form", children...) }
func label(children ...g.Node) g.Node { return g.El("label", children...) }

func field(labelText, id string, input g.Node) g.Node {
	return h.Div(h.Class("field"),
		label(g.Attr("for", id), g.Text(labelText)),
		input,
	)
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}
