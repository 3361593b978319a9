package applies

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/improvedresumes"
	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/shared/util"
	"jobprep-backend/resume/model"
	resumeservice "jobprep-backend/resume/service"
)

const maxBodyBytes = 1 << 20

// Handler wires HTTP handlers to the apply service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches apply and improved resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/apply", h.applyInline)
	rg.POST("/analyses/:id/apply", h.apply)
	rg.GET("/improved-resumes", h.list)
	rg.GET("/improved-resumes/:id", h.get)
	rg.GET("/improved-resumes/:id/download", h.download)
}

type inlineRequest struct {
	OriginalText        string               `json:"originalText"`
	Analysis            model.AnalysisResult `json:"analysis"`
	SelectedSuggestions []model.Suggestion   `json:"selectedSuggestions"`
}

type applyRequest struct {
	SuggestionIndexes []int              `json:"suggestionIndexes"`
	Suggestions       []model.Suggestion `json:"suggestions"`
}

type applyResponse struct {
	improvedresumes.Response
	ImprovedText string `json:"improvedText"`
}

func (h *Handler) applyInline(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	if err := validateInline(raw); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "request body failed validation", verr.Errors)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	var req inlineRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid analysis payload", nil)
		return
	}

	text, err := h.Svc.ApplyInline(req.OriginalText, &req.Analysis, req.SelectedSuggestions)
	if err != nil {
		writeError(c, err, "failed to apply suggestions")
		return
	}
	respond.OK(c, gin.H{"improvedText": text})
}

func (h *Handler) apply(c *gin.Context) {
	analysisID := strings.TrimSpace(c.Param("id"))
	c.Set("analysisId", analysisID)

	raw, ok := readBody(c)
	if !ok {
		return
	}
	var req applyRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
			return
		}
	}

	record, text, err := h.Svc.Apply(c.Request.Context(), ApplyInput{
		UserID:      middleware.UserIDFromContext(c),
		AnalysisID:  analysisID,
		Indexes:     req.SuggestionIndexes,
		Suggestions: req.Suggestions,
	})
	if err != nil {
		writeError(c, err, "failed to apply suggestions")
		return
	}
	respond.JSON(c, http.StatusCreated, applyResponse{Response: improvedresumes.ToResponse(record), ImprovedText: text})
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := util.Page(c.Query("limit"), c.Query("offset"))
	records, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list improved resumes")
		return
	}

	items := make([]improvedresumes.Response, 0, len(records))
	for _, r := range records {
		items = append(items, improvedresumes.ToResponse(r))
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) get(c *gin.Context) {
	record, text, err := h.Svc.Text(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch improved resume")
		return
	}
	c.Set("analysisId", record.AnalysisID)
	respond.OK(c, applyResponse{Response: improvedresumes.ToResponse(record), ImprovedText: text})
}

func (h *Handler) download(c *gin.Context) {
	record, text, err := h.Svc.Text(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to load improved resume")
		return
	}
	c.Set("analysisId", record.AnalysisID)
	respond.Attachment(c, "improved_resume.txt", text)
}

func readBody(c *gin.Context) ([]byte, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return nil, false
	}
	if len(raw) > maxBodyBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "body_too_large", "request body is too large", nil)
		return nil, false
	}
	return raw, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, resumeservice.ErrMissingParsedSections):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []FieldError{{Field: "analysis.parsed_sections", Issue: "required"}})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
