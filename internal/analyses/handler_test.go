package analyses_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprep-backend/internal/analyses"
	"jobprep-backend/internal/documents"
	"jobprep-backend/internal/shared/server/middleware"
	"jobprep-backend/internal/shared/server/respond"
	"jobprep-backend/internal/shared/storage/object/local"
	"jobprep-backend/internal/usage"
	"jobprep-backend/resume/model"
)

const (
	janeResume = "Jane Doe\njane@x.com\nSUMMARY\nExperienced engineer.\nSKILLS\nJavaScript, SQL"
	janeJob    = "Requires Python and AWS experience"
)

func newRouter(t *testing.T, weeklyLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docSvc := &documents.Service{Store: local.New(t.TempDir()), Repo: documents.NewMemoryRepo()}
	svc := &analyses.Service{
		Repo:  analyses.NewMemoryRepo(),
		Usage: usage.NewService(usage.WeeklyPolicy(weeklyLimit)),
		Docs:  docSvc,
	}

	r := gin.New()
	api := r.Group("/api/v1", middleware.Identity())
	documents.NewHandler(docSvc).RegisterRoutes(api)
	analyses.NewHandler(svc).RegisterRoutes(api)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestParseEndpoint(t *testing.T) {
	r := newRouter(t, 10)

	w := doJSON(t, r, http.MethodPost, "/api/v1/resume/parse", mustJSON(t, map[string]string{"text": janeResume}))
	require.Equal(t, http.StatusOK, w.Code)
	var parsed struct {
		Sections model.ParsedSections `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "Jane Doe\njane@x.com", parsed.Sections.Get(model.SectionContactInfo))
	assert.Equal(t, "JavaScript, SQL", parsed.Sections.Get(model.SectionSkills))

	w = doJSON(t, r, http.MethodPost, "/api/v1/resume/parse", `{"text": 42}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "text must be a string", body.Error.Message)

	w = doJSON(t, r, http.MethodPost, "/api/v1/resume/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := newRouter(t, 10)

	w := doJSON(t, r, http.MethodPost, "/api/v1/resume/analyze", mustJSON(t, map[string]string{
		"resumeText":     janeResume,
		"jobDescription": janeJob,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"python", "aws"}, result.MissingKeywords)
	assert.Equal(t, janeResume, result.OriginalText)
	require.NotNil(t, result.ParsedSections)

	w = doJSON(t, r, http.MethodPost, "/api/v1/resume/analyze", `{"resumeText": ["a"], "jobDescription": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/resume/analyze", `{"jobDescription": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeAcceptsEmptyResumeText(t *testing.T) {
	r := newRouter(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/resume/analyze", `{"resumeText": "", "jobDescription": "Requires Python"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"python"}, result.MissingKeywords)
	assert.NotEmpty(t, result.Suggestions)
}

func TestCreateGetAndListAnalyses(t *testing.T) {
	r := newRouter(t, 1)

	w := doJSON(t, r, http.MethodPost, "/api/v1/analyses", mustJSON(t, map[string]string{
		"resumeText":     janeResume,
		"jobDescription": janeJob,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created analyses.Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.Result.Suggestions, len(created.Grouped.Critical)+len(created.Grouped.High)+len(created.Grouped.Medium))

	w = doJSON(t, r, http.MethodGet, "/api/v1/analyses/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/analyses", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []analyses.Summary `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	w = doJSON(t, r, http.MethodPost, "/api/v1/analyses", mustJSON(t, map[string]string{"resumeText": janeResume}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/analyses/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/analyses", `{"jobDescription": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeUploadedDocument(t *testing.T) {
	r := newRouter(t, 10)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(janeResume))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc documents.DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	w = doJSON(t, r, http.MethodPost, "/api/v1/documents/"+doc.DocumentID+"/analyze", mustJSON(t, map[string]string{"jobDescription": janeJob}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created analyses.Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, doc.DocumentID, created.DocumentID)
	assert.Equal(t, []string{"python", "aws"}, created.Result.MissingKeywords)

	w = doJSON(t, r, http.MethodPost, "/api/v1/documents/unknown/analyze", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
