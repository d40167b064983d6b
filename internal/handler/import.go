package handler

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"volunteer-connect/internal/logger"
	"volunteer-connect/internal/middleware"
	"volunteer-connect/internal/model"
	"volunteer-connect/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	previewTTL     = 10 * time.Minute
	maxImportBytes = 5 << 20
)

// ImportHandler adds pending requests from an uploaded spreadsheet in two
// steps: preview parses and caches, confirm adds the cached rows to the board.
type ImportHandler struct {
	triage *service.TriageService
	cache  sync.Map // token -> *previewCache
	now    func() time.Time
}

type previewCache struct {
	owner     string
	requests  []service.VolunteerRequest
	createdAt time.Time
}

func NewImportHandler(triage *service.TriageService) *ImportHandler {
	return &ImportHandler{triage: triage, now: time.Now}
}

// Cleanup drops previews that were never confirmed.
func (h *ImportHandler) Cleanup() int {
	n := 0
	h.cache.Range(func(k, v any) bool {
		if h.now().Sub(v.(*previewCache).createdAt) > previewTTL {
			h.cache.Delete(k)
			n++
		}
		return true
	})
	return n
}

// POST /api/requests/import/preview  multipart field "file" (.xlsx)
func (h *ImportHandler) Preview(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .xlsx files are supported"})
		return
	}
	if file.Size > maxImportBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	logger.Info("import.preview.start", "file", file.Filename, "size", file.Size)

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	reqs, skipped, err := service.ParseRequestSheet(f)
	if err != nil {
		logger.Warn("import.preview.parse", "err", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if reqs == nil {
		reqs = []service.VolunteerRequest{}
	}
	if skipped == nil {
		skipped = []service.SkippedRow{}
	}

	token := ""
	if len(reqs) > 0 {
		token = uuid.NewString()
		h.cache.Store(token, &previewCache{
			owner:     service.AccountOwner(c.GetInt(middleware.KeyAccountID)),
			requests:  reqs,
			createdAt: h.now(),
		})
	}
	logger.Info("import.preview.done", "token", token, "requests", len(reqs), "skipped", len(skipped))
	c.JSON(http.StatusOK, gin.H{"token": token, "requests": reqs, "skipped": skipped})
}

// POST /api/requests/import/confirm  body: {"token":"..."}
func (h *ImportHandler) Confirm(c *gin.Context) {
	var req model.ImportConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	owner := service.AccountOwner(c.GetInt(middleware.KeyAccountID))

	val, ok := h.cache.Load(req.Token)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preview expired, upload again"})
		return
	}
	cached := val.(*previewCache)
	if cached.owner != owner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preview expired, upload again"})
		return
	}
	if h.now().Sub(cached.createdAt) > previewTTL {
		h.cache.Delete(req.Token)
		c.JSON(http.StatusBadRequest, gin.H{"error": "preview expired, upload again"})
		return
	}
	h.cache.Delete(req.Token)

	added := h.triage.Board(owner).Add(cached.requests...)
	logger.Info("import.confirm", "token", req.Token, "added", len(added))
	c.JSON(http.StatusOK, gin.H{"added": added})
}
