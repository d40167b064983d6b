package web

import (
	"errors"
	"net/http"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

var profileSaved = service.Notice{Title: "Profile updated", Description: "Your profile has been successfully updated."}

// sampleProfile stands in when the session does not resolve to a local
// account.
func sampleProfile() *model.Account {
	return &model.Account{
		UserType:  model.UserTypeVolunteer,
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Phone:     "(555) 123-4567",
		Location:  "New York, NY",
		Skill:     "technology",
		Bio:       "Web Developer & Graphic Designer",
	}
}

// Profile shows the signed-in account, or the edit form with ?edit=1.
func (s *Site) Profile(c *gin.Context) {
	a := s.currentAccount(c.Request.Context(), sessionFrom(c))
	if a == nil {
		a = sampleProfile()
	}
	if c.Query("edit") != "" {
		s.render(c, http.StatusOK, page{Title: "Edit Profile", Body: profileForm(a, profileValues(a))})
		return
	}
	s.render(c, http.StatusOK, page{Title: "Profile", Body: profileView(a)})
}

// SaveProfile updates the signed-in account. The sample profile has no row
// behind it, so saving it only confirms.
func (s *Site) SaveProfile(c *gin.Context) {
	ctx := c.Request.Context()
	a := s.currentAccount(ctx, sessionFrom(c))

	var req model.ProfileUpdate
	if err := c.ShouldBind(&req); err != nil {
		shown := a
		if shown == nil {
			shown = sampleProfile()
		}
		s.render(c, http.StatusBadRequest, page{
			Title:  "Edit Profile",
			Body:   profileForm(shown, req),
			Notice: &service.Notice{Title: "Profile not saved", Description: "Please enter a valid email address.", Variant: "destructive"},
		})
		return
	}

	if a != nil {
		if _, err := s.accounts.UpdateProfile(ctx, a.ID, req); err != nil {
			status, msg := http.StatusInternalServerError, "Something went wrong. Please try again."
			if errors.Is(err, service.ErrEmailTaken) {
				status, msg = http.StatusConflict, "That email is already registered to another account."
			} else {
				logger.Error("web.profile.save", "uid", a.ID, "err", err)
			}
			s.render(c, status, page{
				Title:  "Edit Profile",
				Body:   profileForm(a, req),
				Notice: &service.Notice{Title: "Profile not saved", Description: msg, Variant: "destructive"},
			})
			return
		}
		logger.FromContext(ctx).Info("web.profile.saved", "uid", a.ID)
	}

	setFlash(c, profileSaved)
	redirect(c, "/profile")
}

func profileValues(a *model.Account) model.ProfileUpdate {
	v := model.ProfileUpdate{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		OrgName:   a.OrgName,
		Email:     a.Email,
		Phone:     a.Phone,
		Location:  a.Location,
		Skills:    a.Skill,
		About:     a.Bio,
	}
	if a.UserType == model.UserTypeOrganization {
		v.About = a.Description
	}
	return v
}

func profileView(a *model.Account) g.Node {
	rows := []card{{"Email", a.Email}}
	if a.Phone != "" {
		rows = append(rows, card{"Phone", a.Phone})
	}
	if a.Location != "" {
		rows = append(rows, card{"Location", a.Location})
	}
	if a.UserType == model.UserTypeOrganization {
		rows = append(rows, card{"Organization Type", a.OrgType}, card{"Website", a.Website})
	} else if a.Skill != "" {
		rows = append(rows, card{"Primary Skill", a.Skill})
	}
	about := a.Bio
	if a.UserType == model.UserTypeOrganization {
		about = a.Description
	}
	return g.Group([]g.Node{
		h.Section(h.Class("page-header"),
			h.H1(g.Text("My Profile")),
			h.A(h.Class("btn"), h.Href("/profile?edit=1"), g.Text("Edit Profile")),
		),
		h.Div(h.Class("panel profile"),
			h.H2(g.Text(a.DisplayName())),
			h.P(h.Class("muted"), g.Text(a.UserType)),
			g.If(about != "", h.P(g.Text(about))),
			h.Dl(g.Map(rows, func(r card) g.Node {
				return g.Group([]g.Node{h.Dt(g.Text(r.Title)), h.Dd(g.Text(r.Description))})
			})),
		),
	})
}

func profileForm(a *model.Account, v model.ProfileUpdate) g.Node {
	text := func(lbl, name, typ, value string) g.Node {
		return field(lbl, name, h.Input(h.ID(name), h.Name(name), h.Type(typ), h.Value(value)))
	}

	var names g.Node
	if a.UserType == model.UserTypeOrganization {
		names = text("Organization Name", "orgName", "text", v.OrgName)
	} else {
		names = g.Group([]g.Node{
			text("First Name", "firstName", "text", v.FirstName),
			text("Last Name", "lastName", "text", v.LastName),
			field("Skills", "skills", h.Select(h.ID("skills"), h.Name("skills"), options(skillAreas, v.Skills))),
		})
	}

	return g.Group([]g.Node{
		h.Section(h.Class("page-header"), h.H1(g.Text("My Profile"))),
		form(h.Method("post"), h.Action("/profile"), h.Class("panel"),
			h.H2(g.Text("Personal Information")),
			names,
			field("Email", "email", h.Input(h.ID("email"), h.Name("email"), h.Type("email"), h.Value(v.Email), h.Required())),
			text("Phone", "phone", "tel", v.Phone),
			text("Location", "location", "text", v.Location),
			field("Bio", "about", h.Textarea(h.ID("about"), h.Name("about"), g.Text(v.About))),
			h.Div(h.Class("actions"),
				h.A(h.Class("btn btn-outline"), h.Href("/profile"), g.Text("Cancel")),
				h.Button(h.Type("submit"), h.Class("btn"), g.Text("Save Changes")),
			),
		),
	})
}
