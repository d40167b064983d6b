package web

import (
	"net/http"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type card struct {
	Title       string
	Description string
}

func cards(items []card) g.Node {
	return h.Div(h.Class("cards"),
		g.Map(items, func(it card) g.Node {
			return h.Div(h.Class("card"), h.H3(g.Text(it.Title)), h.P(g.Text(it.Description)))
		}),
	)
}

func hero(title, lead string, extra ...g.Node) g.Node {
	return h.Section(h.Class("hero"),
		h.H1(g.Text(title)),
		h.P(h.Class("lead"), g.Text(lead)),
		g.Group(extra),
	)
}

func (s *Site) Home(c *gin.Context) {
	body := g.Group([]g.Node{
		h.Section(h.Class("hero"),
			h.H1(g.Text("Connect, Volunteer, "), h.Span(h.Class("accent"), g.Text("Make a Difference"))),
			h.P(h.Class("lead"), g.Text("Join our community of passionate volunteers and organizations working together to create positive change.")),
			h.Div(h.Class("actions"),
				h.A(h.Class("btn"), h.Href("/sign-up"), g.Text("Get Started")),
				h.A(h.Class("btn btn-outline"), h.Href("/about"), g.Text("Learn More")),
			),
		),
		h.Section(
			h.H2(g.Text("Welcome to VolunteerConnect")),
			h.P(g.Text("We bridge the gap between passionate volunteers and organizations making a difference.")),
			cards([]card{
				{"Make an Impact", "Connect with causes you care about and contribute your skills meaningfully."},
				{"Find Your Community", "Join a network of like-minded individuals passionate about creating change."},
				{"Grow Your Skills", "Develop new abilities while contributing to important causes."},
				{"Track Your Journey", "Document your volunteer experiences and celebrate your contributions."},
			}),
		),
		h.Section(
			h.H2(g.Text("Join Our Community")),
			h.Div(h.Class("cards"),
				joinCard("For Volunteers", model.UserTypeVolunteer,
					"Share your skills, find meaningful opportunities, and make a difference in your community."),
				joinCard("For Organizations", model.UserTypeOrganization,
					"Connect with skilled volunteers, streamline your recruitment process, and accomplish more with the right people on your team."),
			),
		),
		h.Section(
			h.H2(g.Text("How It Works")),
			h.Ol(h.Class("steps"),
				h.Li(h.Strong(g.Text("Create Your Profile")), g.Text(" Sign up and create a detailed profile highlighting your skills and interests.")),
				h.Li(h.Strong(g.Text("Connect via Chatbot")), g.Text(" Use our chatbot to find the perfect volunteer match for your needs.")),
				h.Li(h.Strong(g.Text("Make an Impact")), g.Text(" Connect with organizations, track your contributions, and see the difference you make.")),
			),
		),
	})
	s.render(c, http.StatusOK, page{Body: body})
}

func joinCard(title, userType, text string) g.Node {
	return h.Div(h.Class("card"),
		h.H3(g.Text(title)),
		h.P(g.Text(text)),
		h.A(h.Class("btn btn-outline"), h.Href("/sign-in?type="+userType), g.Text("Sign In")),
		h.A(h.Class("btn"), h.Href("/sign-up?type="+userType), g.Text("Sign Up")),
	)
}

func (s *Site) About(c *gin.Context) {
	body := g.Group([]g.Node{
		hero("About VolunteerConnect", "Learn more about our mission, vision, and the impact we're making in communities around the world."),
		h.Section(
			h.H2(g.Text("Our Mission")),
			h.P(g.Text("VolunteerConnect exists to bridge the gap between passionate volunteers and organizations making a difference.")),
			h.H2(g.Text("Our Vision")),
			h.P(g.Text("We envision a world where volunteering is accessible to everyone and where organizations have the support they need to create lasting change.")),
		),
		h.Section(
			h.H2(g.Text("Our Core Values")),
			cards([]card{
				{"Compassion", "We believe in the power of empathy and understanding to drive meaningful action."},
				{"Impact", "We focus on creating measurable, positive change in communities through volunteer action."},
				{"Excellence", "We strive for the highest quality in everything we do, from our platform to our partnerships."},
				{"Community", "We believe in the power of connection and collaboration to drive positive change."},
				{"Respect", "We honor the time, skills, and contributions of every volunteer and organization."},
				{"Innovation", "We continuously seek new and better ways to connect volunteers with meaningful opportunities."},
			}),
		),
	})
	s.render(c, http.StatusOK, page{Title: "About", Body: body})
}

type expertiseArea struct {
	Category string
	Skills   []string
}

var expertiseAreas = []expertiseArea{
	{"Technology", []string{"Web Development", "App Development", "Data Analysis", "IT Support", "Digital Marketing"}},
	{"Creative", []string{"Graphic Design", "Content Writing", "Photography", "Video Production", "Social Media"}},
	{"Business", []string{"Project Management", "Fundraising", "Strategic Planning", "Financial Analysis", "Marketing"}},
	{"Education", []string{"Tutoring", "Curriculum Development", "Workshop Facilitation", "Language Teaching", "Mentoring"}},
	{"Community", []string{"Event Planning", "Community Outreach", "Volunteer Coordination", "Advocacy", "Crisis Support"}},
	{"Health", []string{"Healthcare Support", "Mental Health Support", "Nutrition Education", "Fitness Instruction", "First Aid"}},
}

func (s *Site) Services(c *gin.Context) {
	steps := []string{
		"Share your volunteering needs with the chatbot in conversational language",
		"The chatbot matches your requirements with volunteer profiles",
		"Review suggested volunteer profiles and skills",
		"Send requests to volunteers directly through the platform",
		"Track responses and coordinate details all in one place",
	}
	body := g.Group([]g.Node{
		hero("Our Services", "Discover how our platform connects volunteers with organizations through personalized matching."),
		h.Section(
			h.H2(g.Text("How the Chatbot Works")),
			h.Ol(h.Class("steps"), g.Map(steps, func(st string) g.Node { return h.Li(g.Text(st)) })),
			h.A(h.Class("btn"), h.Href("/chatbot"), g.Text("Try the Chatbot")),
		),
		h.Section(
			h.H2(g.Text("Volunteer Expertise Areas")),
			h.Div(h.Class("cards"),
				g.Map(expertiseAreas, func(a expertiseArea) g.Node {
					return h.Div(h.Class("card"),
						h.H3(g.Text(a.Category)),
						h.Ul(g.Map(a.Skills, func(sk string) g.Node { return h.Li(g.Text(sk)) })),
					)
				}),
			),
		),
	})
	s.render(c, http.StatusOK, page{Title: "Services", Body: body})
}

type option struct{ Value, Label string }

var inquiryTypes = []option{
	{"general", "General Question"},
	{"volunteer", "Volunteer Support"},
	{"organization", "Organization Support"},
	{"technical", "Technical Issue"},
	{"feedback", "Feedback"},
	{"other", "Other"},
}

func options(opts []option, selected string) g.Node {
	return g.Map(opts, func(o option) g.Node {
		return h.Option(h.Value(o.Value), g.If(o.Value == selected, h.Selected()), g.Text(o.Label))
	})
}

func (s *Site) Contact(c *gin.Context) {
	s.render(c, http.StatusOK, page{Title: "Contact", Body: contactPage(model.ContactRequest{})})
}

// SubmitContact stores the message and flashes a confirmation.
func (s *Site) SubmitContact(c *gin.Context) {
	var req model.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		s.render(c, http.StatusBadRequest, page{
			Title:  "Contact",
			Body:   contactPage(req),
			Notice: &service.Notice{Title: "Message not sent", Description: "Please fill in all required fields.", Variant: "destructive"},
		})
		return
	}
	if _, err := s.contact.Submit(c.Request.Context(), req); err != nil {
		logger.Error("contact.submit", "err", err)
		s.render(c, http.StatusInternalServerError, page{
			Title:  "Contact",
			Body:   contactPage(req),
			Notice: &service.Notice{Title: "Message not sent", Description: "Something went wrong. Please try again.", Variant: "destructive"},
		})
		return
	}
	setFlash(c, service.Notice{Title: "Message sent!", Description: "We've received your message and will get back to you soon."})
	redirect(c, "/contact")
}

func contactPage(v model.ContactRequest) g.Node {
	return g.Group([]g.Node{
		hero("Contact Us", "Have questions or feedback? We're here to help."),
		h.Section(h.Class("split"),
			form(h.Method("post"), h.Action("/contact"), h.Class("panel"),
				h.H2(g.Text("Get in Touch")),
				field("First Name", "first-name", h.Input(h.ID("first-name"), h.Name("firstName"), h.Value(v.FirstName), h.Required())),
				field("Last Name", "last-name", h.Input(h.ID("last-name"), h.Name("lastName"), h.Value(v.LastName), h.Required())),
				field("Email", "email", h.Input(h.ID("email"), h.Type("email"), h.Name("email"), h.Value(v.Email), h.Required())),
				field("Inquiry Type", "inquiry-type", h.Select(h.ID("inquiry-type"), h.Name("inquiryType"),
					options(inquiryTypes, v.InquiryType),
				)),
				field("Message", "message", h.Textarea(h.ID("message"), h.Name("message"), h.Placeholder("How can we help you?"), h.Required(), g.Text(v.Message))),
				h.Button(h.Type("submit"), h.Class("btn"), g.Text("Submit")),
			),
			h.Div(h.Class("panel"),
				h.H2(g.Text("Contact Information")),
				h.P(h.Strong(g.Text("Address ")), g.Text("123 Volunteer Street, Suite 456, City, State 12345")),
				h.P(h.Strong(g.Text("Phone ")), g.Text("Main: (555) 123-4567, Support: (555) 987-6543")),
				h.P(h.Strong(g.Text("Email ")), g.Text("info@volunteerconnect.com")),
				h.P(h.Strong(g.Text("Hours ")), g.Text("Monday - Friday: 9AM - 5PM, Saturday: 10AM - 2PM")),
			),
		),
		h.Section(
			h.H2(g.Text("Frequently Asked Questions")),
			cards([]card{
				{"How do I create an account?", "Click the 'Sign Up' button and follow the registration process for either volunteers or organizations."},
				{"Is the service free to use?", "Yes, our platform is free for both volunteers and organizations."},
				{"Can I volunteer remotely?", "Absolutely! Many opportunities on our platform can be completed remotely."},
			}),
		),
	})
}

func (s *Site) Dashboard(c *gin.Context) {
	name := "John"
	if a := s.currentAccount(c.Request.Context(), sessionFrom(c)); a != nil {
		name = a.FirstName
		if name == "" {
			name = a.DisplayName()
		}
	}
	body := g.Group([]g.Node{
		h.Section(h.Class("page-header"),
			h.H1(g.Text("Volunteer Dashboard")),
			h.P(g.Textf("Welcome back, %s! Here's your volunteering summary.", name)),
			h.A(h.Class("btn"), h.Href("/profile"), g.Text("Update Profile")),
		),
		h.Div(h.Class("stats"),
			stat("48", "Hours Volunteered"),
			stat("12", "Completed Projects"),
			stat("5", "Skills Endorsed"),
		),
		h.Section(
			h.H2(g.Text("Active Requests")),
			cards([]card{
				{"EcoAction Environmental Group", "In Progress · Apr 15 - May 30, 2025 · 65%"},
				{"Hope House Community Center", "Starting Soon · May 20 - Jun 20, 2025 · 0%"},
			}),
			h.H2(g.Text("Completed Projects")),
			cards([]card{
				{"Fundraising Event for Local School", "Lincoln Elementary PTA · Mar 10 - Apr 2, 2025 · 18 hours"},
				{"Database Setup for Animal Shelter", "Happy Paws Rescue · Feb 5 - Feb 28, 2025 · 12 hours"},
				{"Grant Writing Workshop", "Community Foundation · Jan 15 - Jan 20, 2025 · 8 hours"},
			}),
		),
	})
	s.render(c, http.StatusOK, page{Title: "Dashboard", Body: body})
}

func stat(value, label string) g.Node {
	return h.Div(h.Class("stat"), h.H2(g.Text(value)), h.P(g.Text(label)))
}

func notFoundPage() g.Node {
	return h.Section(h.Class("not-found"),
		h.H1(g.Text("404")),
		h.H2(g.Text("Page Not Found")),
		h.P(g.Text("Sorry, the page you're looking for doesn't exist or has been moved.")),
		h.A(h.Class("btn"), h.Href("/"), g.Text("Return to Home")),
	)
}
