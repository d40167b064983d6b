package web

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// conversation returns the conversation the cookie points at, or nil when
// there is none or it has been evicted.
func (s *Site) conversation(c *gin.Context, cookie string) *service.Conversation {
	id, err := c.Cookie(cookie)
	if err != nil || id == "" {
		return nil
	}
	conv, err := s.chats.Get(id)
	if err != nil {
		return nil
	}
	return conv
}

func (s *Site) openConversation(c *gin.Context, cookie string, kind service.ChatKind) (*service.Conversation, error) {
	if conv := s.conversation(c, cookie); conv != nil {
		return conv, nil
	}
	conv, err := s.chats.Create(kind)
	if err != nil {
		return nil, err
	}
	setCookie(c, cookie, conv.ID(), 0)
	return conv, nil
}

// submit sends text and swallows the rejections the form already prevents.
func submit(c *gin.Context, conv *service.Conversation, text string) {
	_, err := conv.Submit(text)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrReplyPending):
	default:
		logger.FromContext(c.Request.Context()).Warn("web.chat.submit", "conversation", conv.ID(), "err", err)
	}
}

// widget renders the floating chat. It starts collapsed and stays expanded
// while the visitor has a widget conversation.
func (s *Site) widget(c *gin.Context) (g.Node, bool) {
	here := safeReturn(c.Request.URL.RequestURI())
	conv := s.conversation(c, cookieWidget)

	msgs := []service.Message{{ID: 1, Text: service.Greeting(service.ChatWidget), Sender: service.SenderBot, Timestamp: time.Now()}}
	loading := false
	if conv != nil {
		msgs = conv.Messages()
		loading = conv.Loading()
	}

	return h.Details(h.Class("chat-widget"), g.If(conv != nil, g.Attr("open")),
		h.Summary(g.Attr("aria-label", "Chat with us"), g.Text("Chat")),
		h.Div(h.Class("chat-window"),
			h.Div(h.Class("chat-header"),
				h.Strong(g.Text("VolunteerConnect")),
				g.If(conv != nil, form(h.Method("post"), h.Action("/chat/widget/close"), h.Class("inline"),
					h.Input(h.Type("hidden"), h.Name("return"), h.Value(here)),
					h.Button(h.Type("submit"), h.Class("btn btn-ghost"), g.Attr("aria-label", "Close chat"), g.Text("×")),
				)),
			),
			messageList(msgs, loading),
			chatInput("/chat/widget", here, "", loading),
			h.A(h.Class("btn btn-link"), h.Href("/chatbot"), g.Text("Open full chatbot")),
		),
	), loading
}

func chatInput(action, returnTo, prefill string, loading bool) g.Node {
	return form(h.Method("post"), h.Action(action), h.Class("chat-input"),
		g.If(returnTo != "", h.Input(h.Type("hidden"), h.Name("return"), h.Value(returnTo))),
		h.Input(h.Type("text"), h.Name("text"), h.Placeholder("Type your message..."), h.Value(prefill),
			g.Attr("autocomplete", "off"), g.If(loading, h.Disabled())),
		h.Button(h.Type("submit"), h.Class("btn"), g.If(loading, h.Disabled()), g.Text("Send")),
	)
}

// SubmitWidget posts a message from the widget and returns to the page it
// was sent from.
func (s *Site) SubmitWidget(c *gin.Context) {
	back := safeReturn(c.PostForm("return"))
	conv, err := s.openConversation(c, cookieWidget, service.ChatWidget)
	if err != nil {
		logger.Error("web.widget.open", "err", err)
		redirect(c, back)
		return
	}
	submit(c, conv, c.PostForm("text"))
	redirect(c, back)
}

// CloseWidget discards the widget conversation, so reopening starts from the
// greeting again.
func (s *Site) CloseWidget(c *gin.Context) {
	if id, _ := c.Cookie(cookieWidget); id != "" {
		if err := s.chats.Delete(id); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
			logger.FromContext(c.Request.Context()).Debug("web.widget.close", "conversation", id, "err", err)
		}
	}
	setCookie(c, cookieWidget, "", -1)
	redirect(c, safeReturn(c.PostForm("return")))
}

func (s *Site) Chatbot(c *gin.Context) {
	conv, err := s.openConversation(c, cookieAssistant, service.ChatAssistant)
	if err != nil {
		logger.Error("web.chatbot.open", "err", err)
		c.String(http.StatusInternalServerError, "chat unavailable")
		return
	}
	loading := conv.Loading()
	p := page{Title: "Chatbot", Body: chatbotPage(conv.Messages(), loading, c.Query("q"))}
	if loading {
		p.Refresh = 1
	}
	s.render(c, http.StatusOK, p)
}

func (s *Site) SubmitChatbot(c *gin.Context) {
	conv, err := s.openConversation(c, cookieAssistant, service.ChatAssistant)
	if err != nil {
		logger.Error("web.chatbot.open", "err", err)
		redirect(c, "/chatbot")
		return
	}
	submit(c, conv, c.PostForm("text"))
	redirect(c, "/chatbot")
}

func (s *Site) ResetChatbot(c *gin.Context) {
	if conv := s.conversation(c, cookieAssistant); conv != nil {
		conv.Reset()
	}
	redirect(c, "/chatbot")
}

func chatbotPage(msgs []service.Message, loading bool, prefill string) g.Node {
	return h.Div(h.Class("chatbot"),
		h.Div(h.Class("panel chat-panel"),
			h.Div(h.Class("chat-header"),
				h.H2(g.Text("VolunteerConnect Assistant")),
				form(h.Method("post"), h.Action("/chatbot/reset"), h.Class("inline"),
					h.Button(h.Type("submit"), h.Class("btn btn-ghost"), g.Text("New conversation")),
				),
			),
			messageList(msgs, loading),
			chatInput("/chatbot", "", prefill, loading),
		),
		h.Aside(h.Class("suggestions"),
			h.H3(g.Text("Suggested Questions")),
			g.Map(service.SuggestedQuestions, func(q string) g.Node {
				return h.A(h.Class("btn btn-outline suggestion"), h.Href("/chatbot?q="+url.QueryEscape(q)), g.Text(q))
			}),
		),
	)
}
