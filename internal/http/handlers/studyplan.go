package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/apierr"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type StudyPlanHandler struct {
	svc services.StudyPlanService
}

func NewStudyPlanHandler(svc services.StudyPlanService) *StudyPlanHandler {
	return &StudyPlanHandler{svc: svc}
}

// GET /api/schedule/weekly
func (h *StudyPlanHandler) GetWeekly(c *gin.Context) {
	out, err := h.svc.GetWeekly(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/schedule/refresh
// Body is optional; when present it overrides the stored preferences for this run.
func (h *StudyPlanHandler) Refresh(c *gin.Context) {
	var override *types.Preferences
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		var body types.Preferences
		if err := c.ShouldBindJSON(&body); err != nil {
			if !errors.Is(err, io.EOF) {
				response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
				return
			}
		} else {
			override = &body
		}
	}

	out, err := h.svc.Refresh(c.Request.Context(), override)
	if err != nil {
		ae := apierr.As(err)
		if out != nil && out.Schedule != nil && ae.Status == http.StatusTooManyRequests {
			if secs := out.RetryAfterSeconds(); secs != "" {
				c.Header("Retry-After", secs)
			}
			c.JSON(ae.Status, gin.H{
				"schedule": out.Schedule,
				"error":    response.APIError{Message: ae.Error(), Code: ae.Code},
			})
			return
		}
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/schedule/quota
func (h *StudyPlanHandler) Quota(c *gin.Context) {
	out, err := h.svc.Quota(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/analytics?timeframe=1month|6months|1year
func (h *StudyPlanHandler) Analytics(c *gin.Context) {
	out, err := h.svc.Analytics(c.Request.Context(), c.Query("timeframe"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/schedule/preferences
func (h *StudyPlanHandler) GetPreferences(c *gin.Context) {
	out, err := h.svc.GetPreferences(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": out})
}

// PUT /api/schedule/preferences
func (h *StudyPlanHandler) SavePreferences(c *gin.Context) {
	var body types.Preferences
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.svc.SavePreferences(c.Request.Context(), body)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": out})
}
