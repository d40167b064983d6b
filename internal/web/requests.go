package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// board returns the triage board of the signed-in account. Tokens this server
// cannot verify get the shared visitor board.
func (s *Site) board(c *gin.Context) *service.Board {
	owner := ""
	if tok := sessionFrom(c).Token; tok != "" && s.tokens != nil {
		if claims, err := s.tokens.Parse(tok); err == nil {
			owner = service.AccountOwner(claims.AccountID)
		}
	}
	return s.triage.Board(owner)
}

func (s *Site) Requests(c *gin.Context) {
	b := s.board(c)
	q := strings.TrimSpace(c.Query("q"))
	s.render(c, http.StatusOK, page{
		Title: "Requests",
		Body:  requestsPage(q, b.Search(q), b.Approved()),
	})
}

func (s *Site) ApproveRequest(c *gin.Context) {
	s.decide(c, "approve", (*service.Board).Approve)
}

func (s *Site) RejectRequest(c *gin.Context) {
	s.decide(c, "reject", (*service.Board).Reject)
}

// decide applies a triage action and flashes its notice. Ids that are no
// longer pending change nothing and show nothing.
func (s *Site) decide(c *gin.Context, action string, fn func(*service.Board, int) (service.Notice, bool)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		if notice, ok := fn(s.board(c), id); ok {
			setFlash(c, notice)
			logger.FromContext(c.Request.Context()).Info("web.requests."+action, "request_id", id)
		}
	}
	back := "/requests"
	if q := strings.TrimSpace(c.PostForm("q")); q != "" {
		back += "?q=" + url.QueryEscape(q)
	}
	redirect(c, back)
}

func requestsPage(q string, pending, approved []service.VolunteerRequest) g.Node {
	var pendingBody g.Node
	if len(pending) == 0 {
		pendingBody = h.P(h.Class("empty"), g.Text("No pending requests at this time."))
	} else {
		pendingBody = h.Div(h.Class("requests"), g.Map(pending, func(r service.VolunteerRequest) g.Node {
			return requestCard(r, q, true)
		}))
	}
	var approvedBody g.Node
	if len(approved) == 0 {
		approvedBody = h.P(h.Class("empty"), g.Text("No approved requests yet."))
	} else {
		approvedBody = h.Div(h.Class("requests"), g.Map(approved, func(r service.VolunteerRequest) g.Node {
			return requestCard(r, q, false)
		}))
	}

	return g.Group([]g.Node{
		h.Section(h.Class("page-header"),
			h.H1(g.Text("Volunteer Requests")),
			h.P(g.Text("Manage volunteer applications and ongoing projects")),
		),
		form(h.Method("get"), h.Action("/requests"), h.Class("search"),
			h.Input(h.Type("search"), h.Name("q"), h.Value(q), h.Placeholder("Search volunteers, projects, or skills")),
			h.Button(h.Type("submit"), h.Class("btn btn-outline"), g.Text("Search")),
		),
		h.Section(
			h.H2(g.Textf("Pending Requests (%d)", len(pending))),
			pendingBody,
		),
		h.Section(
			h.H2(g.Textf("Approved (%d)", len(approved))),
			approvedBody,
		),
		h.Section(
			h.H2(g.Text("Completed (0)")),
			h.P(h.Class("empty"), g.Text("No completed projects yet.")),
		),
	})
}

func requestCard(r service.VolunteerRequest, q string, actions bool) g.Node {
	v := r.Volunteer
	var avatar g.Node
	if v.Avatar != "" {
		avatar = h.Img(h.Class("avatar"), h.Src(v.Avatar), h.Alt(v.Name))
	} else if v.Name != "" {
		avatar = h.Span(h.Class("avatar"), g.Text(string([]rune(v.Name)[:1])))
	}
	decision := func(action, text, cls string) g.Node {
		return form(h.Method("post"), h.Action(fmt.Sprintf("/requests/%d/%s", r.ID, action)), h.Class("inline"),
			g.If(q != "", h.Input(h.Type("hidden"), h.Name("q"), h.Value(q))),
			h.Button(h.Type("submit"), h.Class(cls), g.Text(text)),
		)
	}
	return h.Div(h.Class("card request"), g.Attr("data-request-id", strconv.Itoa(r.ID)),
		h.Div(h.Class("request-head"),
			avatar,
			h.Div(
				h.H3(g.Text(v.Name)),
				h.P(h.Class("muted"), g.Textf("★ %.1f · Applied %s", v.Rating, r.RequestDate)),
			),
		),
		h.Div(h.Class("badges"), g.Map(v.Skills, func(sk string) g.Node {
			return h.Span(h.Class("badge"), g.Text(sk))
		})),
		h.Dl(
			h.Dt(g.Text("Project")), h.Dd(g.Text(r.Project)),
			h.Dt(g.Text("Time Commitment")), h.Dd(g.Text(r.TimeCommitment)),
			h.Dt(g.Text("Location")), h.Dd(g.Text(r.Location)),
		),
		g.If(actions, h.Div(h.Class("actions"),
			decision("approve", "Approve", "btn"),
			decision("reject", "Decline", "btn btn-danger"),
		)),
	)
}
