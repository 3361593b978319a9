package documents

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/current", h.current)
	rg.GET("/documents/:id", h.get)
	rg.GET("/documents/:id/text", h.text)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	// Multipart framing needs headroom above the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+(1<<20))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to upload document")
		return
	}
	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, toResponse(doc))
}

func (h *Handler) current(c *gin.Context) {
	doc, err := h.Svc.Current(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to fetch document")
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) get(c *gin.Context) {
	c.Set("documentId", c.Param("id"))
	doc, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to fetch document")
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) text(c *gin.Context) {
	c.Set("documentId", c.Param("id"))
	text, err := h.Svc.Text(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to read document text")
		return
	}
	respond.OK(c, gin.H{"documentId": c.Param("id"), "text": text})
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := util.Page(c.Query("limit"), c.Query("offset"))
	docs, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err, "failed to list documents")
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, gin.H{"items": resp, "limit": limit, "offset": offset})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
	case errors.Is(err, ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "only PDF, DOCX and plain text files are supported", nil)
	case errors.Is(err, ErrMissingText):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "no readable text found in file", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
