package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
	"github.com/estatedesk/estate-backend/internal/listings/draft"
	"github.com/estatedesk/estate-backend/internal/listings/submit"
)

const maxSubmissionMemory = 64 << 20

func (h *Handler) submit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxSubmissionMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid multipart body"})
		return
	}

	req, err := submit.ParseForm(c.Request.MultipartForm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	key := req.Meta.DraftID
	if key == "" {
		key = strings.ToLower(req.Meta.DeveloperName + "/" + req.Meta.ProjectName)
	}
	if !h.acquire(key) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": domain.ErrSubmissionInFlight.Error()})
		return
	}
	defer h.release(key)

	res, err := h.submitter.Submit(c.Request.Context(), req)
	if err != nil {
		var consistency *domain.ConsistencyError
		if errors.As(err, &consistency) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": consistency.Error()})
			return
		}
		// Persistence failures may have committed earlier rows; the client
		// only gets a generic message either way.
		h.logger.Error("submission failed", zap.String("draft_id", req.Meta.DraftID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to submit project"})
		return
	}

	if req.Meta.DraftID != "" {
		if err := h.snapshots.Discard(c.Request.Context(), req.Meta.DraftID); err != nil {
			h.logger.Warn("failed to discard draft snapshot", zap.String("draft_id", req.Meta.DraftID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "project submitted",
		"data":    res,
	})
}

func (h *Handler) nextCode(c *gin.Context) {
	city := c.Query("city")
	developer := c.Query("developer")
	if city == "" || developer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "city and developer are required"})
		return
	}

	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid year"})
			return
		}
		year = parsed
	}

	code := h.codes.Generate(c.Request.Context(), city, developer, year)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "code generated",
		"data":    gin.H{"project_code": code},
	})
}

type snapshotReq struct {
	Fields         domain.Draft           `json:"fields"`
	Configurations []domain.Configuration `json:"configurations"`
}

func (h *Handler) saveSnapshot(c *gin.Context) {
	var req snapshotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid body"})
		return
	}

	store := draft.NewStore(draft.ModeCreate, nil)
	store.ID = c.Param("draft_id")
	store.Fields = req.Fields
	for _, cfg := range req.Configurations {
		store.Configs.AddFromSeed(cfg, nil)
	}

	if err := h.snapshots.Save(c.Request.Context(), store); err != nil {
		h.logger.Error("failed to save snapshot", zap.String("draft_id", store.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "draft saved"})
}

func (h *Handler) loadSnapshot(c *gin.Context) {
	draftID := c.Param("draft_id")

	store, err := h.snapshots.Load(c.Request.Context(), draftID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "no draft saved"})
			return
		}
		h.logger.Error("failed to load snapshot", zap.String("draft_id", draftID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to load draft"})
		return
	}

	cfgs := make([]domain.Configuration, 0, store.Configs.Len())
	for _, row := range store.Configs.Rows() {
		cfgs = append(cfgs, row.Config)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "draft loaded",
		"data": snapshotReq{
			Fields:         store.Fields,
			Configurations: cfgs,
		},
	})
}

func (h *Handler) discardSnapshot(c *gin.Context) {
	draftID := c.Param("draft_id")
	if err := h.snapshots.Discard(c.Request.Context(), draftID); err != nil {
		h.logger.Error("failed to discard snapshot", zap.String("draft_id", draftID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to discard draft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "draft discarded"})
}
