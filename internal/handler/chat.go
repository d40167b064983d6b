package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const keepAliveInterval = 25 * time.Second

type ChatHandler struct {
	sessions *SessionHandler
}

func NewChatHandler(sessions *SessionHandler) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

// submitStatus maps a Submit error to the HTTP status the API answers with.
func submitStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrReplyPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrConversationClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// POST /api/chat/sessions/:id/messages  body: {"text":"..."}
// Answers 202 with the user's message; the bot reply arrives later.
func (h *ChatHandler) Submit(c *gin.Context) {
	conv, ok := h.sessions.lookup(c)
	if !ok {
		return
	}
	var req model.ChatSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := conv.Submit(req.Text)
	if err != nil {
		c.JSON(submitStatus(err), gin.H{"error": err.Error()})
		return
	}
	logger.FromContext(c.Request.Context()).Info("chat.submit", "conversation", conv.ID(), "kind", conv.Kind(), "message_id", msg.ID)
	c.JSON(http.StatusAccepted, msg)
}

type sseWriter struct {
	w http.Flusher
	f gin.ResponseWriter
}

func (s *sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.f, "event: %s\ndata: %s\n\n", name, j)
	s.w.Flush()
}

func (s *sseWriter) comment(text string) {
	fmt.Fprintf(s.f, ": %s\n\n", text)
	s.w.Flush()
}

// GET /api/chat/sessions/:id/events
// Streams every message appended after the request as a "message" event.
func (h *ChatHandler) Events(c *gin.Context) {
	conv, ok := h.sessions.lookup(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	msgs, cancel := conv.Subscribe()
	defer cancel()

	sse := &sseWriter{w: c.Writer, f: c.Writer}
	sse.event("ready", viewOf(conv))

	ctx := c.Request.Context()
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sse.comment("keep-alive")
		case m, open := <-msgs:
			if !open {
				sse.event("closed", gin.H{})
				return
			}
			sse.event("message", m)
		}
	}
}

type wsIncoming struct {
	Text string `json:"text"`
}

type wsOutgoing struct {
	Type    string           `json:"type"`
	Message *service.Message `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// GET /api/chat/sessions/:id/ws
// The socket pushes appended messages and accepts {"text":"..."} submits.
func (h *ChatHandler) WebSocket(c *gin.Context) {
	conv, ok := h.sessions.lookup(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("chat.ws.upgrade", "err", err)
		return
	}
	defer conn.Close()

	msgs, cancel := conv.Subscribe()
	defer cancel()

	// gorilla allows one concurrent writer, so all writes go through here
	out := make(chan wsOutgoing, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case m, open := <-msgs:
				if !open {
					conn.WriteJSON(wsOutgoing{Type: "closed"})
					conn.Close()
					return
				}
				if err := conn.WriteJSON(wsOutgoing{Type: "message", Message: &m}); err != nil {
					return
				}
			case o, open := <-out:
				if !open {
					return
				}
				if err := conn.WriteJSON(o); err != nil {
					return
				}
			}
		}
	}()

	for {
		var in wsIncoming
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("chat.ws.read", "conversation", conv.ID(), "err", err)
			}
			break
		}
		if _, err := conv.Submit(in.Text); err != nil {
			select {
			case out <- wsOutgoing{Type: "error", Error: err.Error()}:
			case <-done:
			}
		}
	}
	close(out)
	<-done
}
