package handler

import (
	"errors"
	"io"
	"net/http"

	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

type sessionView struct {
	ID       string            `json:"id"`
	Kind     service.ChatKind  `json:"kind"`
	Loading  bool              `json:"loading"`
	Messages []service.Message `json:"messages"`
}

func viewOf(conv *service.Conversation) sessionView {
	return sessionView{ID: conv.ID(), Kind: conv.Kind(), Loading: conv.Loading(), Messages: conv.Messages()}
}

type SessionHandler struct {
	chats *service.ChatService
}

func NewSessionHandler(chats *service.ChatService) *SessionHandler {
	return &SessionHandler{chats: chats}
}

// POST /api/chat/sessions  body: {"kind":"widget"|"assistant"}
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.CreateChatSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Kind == "" {
		req.Kind = string(service.ChatWidget)
	}
	conv, err := h.chats.Create(service.ChatKind(req.Kind))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, viewOf(conv))
}

// GET /api/chat/sessions/:id/messages
func (h *SessionHandler) Messages(c *gin.Context) {
	conv, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(conv))
}

// DELETE /api/chat/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.chats.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *SessionHandler) lookup(c *gin.Context) (*service.Conversation, bool) {
	conv, err := h.chats.Get(c.Param("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return conv, true
}
