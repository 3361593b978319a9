package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/documents"
	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/shared/util"
	"jobprep-backend/internal/usage"
)

const maxBodyBytes = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resume/parse", h.parse)
	rg.POST("/resume/analyze", h.analyze)
	rg.POST("/analyses", h.create)
	rg.POST("/documents/:id/analyze", h.analyzeDocument)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
}

type parseRequest struct {
	Text *string `json:"text"`
}

type analyzeRequest struct {
	ResumeText     *string `json:"resumeText"`
	JobDescription *string `json:"jobDescription"`
}

type createRequest struct {
	ResumeText     *string `json:"resumeText"`
	DocumentID     *string `json:"documentId"`
	JobDescription *string `json:"jobDescription"`
}

type documentAnalyzeRequest struct {
	JobDescription *string `json:"jobDescription"`
}

func (h *Handler) parse(c *gin.Context) {
	var req parseRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if req.Text == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", fieldIssue("text", "required"))
		return
	}
	respond.OK(c, gin.H{"sections": h.Svc.Parse(*req.Text)})
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if req.ResumeText == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText is required", fieldIssue("resumeText", "required"))
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), *req.ResumeText, deref(req.JobDescription))
	if err != nil {
		writeError(c, err, "failed to analyze resume")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if !bindJSON(c, &req, false) {
		return
	}
	if strings.TrimSpace(deref(req.ResumeText)) == "" && strings.TrimSpace(deref(req.DocumentID)) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText or documentId is required", fieldIssue("resumeText", "required"))
		return
	}

	h.persist(c, CreateInput{
		UserID:         middleware.UserIDFromContext(c),
		ResumeText:     deref(req.ResumeText),
		DocumentID:     strings.TrimSpace(deref(req.DocumentID)),
		JobDescription: deref(req.JobDescription),
	})
}

func (h *Handler) analyzeDocument(c *gin.Context) {
	documentID := strings.TrimSpace(c.Param("id"))
	c.Set("documentId", documentID)

	var req documentAnalyzeRequest
	if !bindJSON(c, &req, true) {
		return
	}
	h.persist(c, CreateInput{
		UserID:         middleware.UserIDFromContext(c),
		DocumentID:     documentID,
		JobDescription: deref(req.JobDescription),
	})
}

func (h *Handler) persist(c *gin.Context, in CreateInput) {
	analysis, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to create analysis")
		return
	}
	c.Set("analysisId", analysis.ID)
	respond.JSON(c, http.StatusCreated, toDetail(analysis))
}

func (h *Handler) get(c *gin.Context) {
	analysisID := c.Param("id")
	c.Set("analysisId", analysisID)

	analysis, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), analysisID)
	if err != nil {
		writeError(c, err, "failed to fetch analysis")
		return
	}
	respond.OK(c, toDetail(analysis))
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := util.Page(c.Query("limit"), c.Query("offset"))
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list analyses")
		return
	}

	resp := make([]Summary, 0, len(items))
	for _, a := range items {
		resp = append(resp, toSummary(a))
	}
	respond.OK(c, gin.H{"items": resp, "limit": limit, "offset": offset})
}

// bindJSON decodes the request body into dst. Type mismatches such as a
// number where a string is expected are reported as validation errors.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read body", nil)
		return false
	}
	if len(raw) > maxBodyBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "body_too_large", "request body is too large", nil)
		return false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if optional {
			return true
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", typeErr.Field+" must be a "+typeErr.Type.String(), fieldIssue(typeErr.Field, "invalid_type"))
			return false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return false
	}
	return true
}

func fieldIssue(field, issue string) []map[string]string {
	return []map[string]string{{"field": field, "issue": issue}}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrMissingText):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), fieldIssue("resumeText", "required"))
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, documents.ErrMissingText), errors.Is(err, documents.ErrUnsupportedType):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "no readable text found in document", nil)
	case errors.Is(err, usage.ErrLimitReached):
		respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your analysis limit for this week.", fieldIssue("usage", "limit_reached"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
