package handler

import (
	"net/http"
	"strconv"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/middleware"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestsHandler serves the organization's triage board. Boards are keyed by
// the token's account, so a renewed token keeps the same board.
type RequestsHandler struct {
	triage *service.TriageService
}

func NewRequestsHandler(triage *service.TriageService) *RequestsHandler {
	return &RequestsHandler{triage: triage}
}

func (h *RequestsHandler) board(c *gin.Context) *service.Board {
	return h.triage.Board(service.AccountOwner(c.GetInt(middleware.KeyAccountID)))
}

// GET /api/requests?q=
func (h *RequestsHandler) List(c *gin.Context) {
	b := h.board(c)
	pending := b.Search(c.Query("q"))
	if pending == nil {
		pending = []service.VolunteerRequest{}
	}
	approved := b.Approved()
	if approved == nil {
		approved = []service.VolunteerRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "approved": approved})
}

// POST /api/requests/:id/approve
func (h *RequestsHandler) Approve(c *gin.Context) {
	h.decide(c, "approve", (*service.Board).Approve)
}

// POST /api/requests/:id/reject
func (h *RequestsHandler) Reject(c *gin.Context) {
	h.decide(c, "reject", (*service.Board).Reject)
}

func (h *RequestsHandler) decide(c *gin.Context, action string, fn func(*service.Board, int) (service.Notice, bool)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	notice, ok := fn(h.board(c), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not pending"})
		return
	}
	logger.Info("requests."+action, "uid", c.GetInt(middleware.KeyAccountID), "request_id", id)
	c.JSON(http.StatusOK, notice)
}
