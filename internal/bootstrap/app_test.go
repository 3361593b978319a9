package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprep-backend/internal/shared/cache"
	"jobprep-backend/internal/shared/config"
)

const (
	janeResume = "Jane Doe\njane@x.com\nSUMMARY\nExperienced engineer.\nSKILLS\nJavaScript, SQL"
	janeJob    = "Requires Python and AWS experience"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:            "dev",
		LocalStoreDir:  t.TempDir(),
		CacheTTL:       time.Hour,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		UsageWeekly:    2,
	}
}

func send(t *testing.T, app *App, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1"

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	_, isMemory := app.Cache.(*cache.Memory)
	assert.True(t, isMemory)
}

func TestBuildZeroTTLDisablesCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheTTL = 0

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, cache.Noop{}, app.Cache)
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"

	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildUsesRedisWhenReachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	_, isRedis := app.Cache.(*cache.Redis)
	require.True(t, isRedis)

	body, _ := json.Marshal(map[string]string{"resumeText": janeResume, "jobDescription": janeJob})
	w := send(t, app, http.MethodPost, "/api/v1/resume/analyze", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, mr.Keys(), 1)
}

func TestUploadAnalyzeApplyFlow(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer app.Close()

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("file", "jane.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(janeResume))
	require.NoError(t, mw.Close())

	w := send(t, app, http.MethodPost, "/api/v1/documents", mw.FormDataContentType(), form.Bytes())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc struct {
		DocumentID string `json:"documentId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))

	body, _ := json.Marshal(map[string]string{"jobDescription": janeJob})
	w = send(t, app, http.MethodPost, "/api/v1/documents/"+doc.DocumentID+"/analyze", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var analysis struct {
		ID     string `json:"id"`
		Result struct {
			MissingKeywords []string `json:"missing_keywords"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, []string{"python", "aws"}, analysis.Result.MissingKeywords)

	body = []byte(`{"suggestions":[{"type":"add_keywords","example":"Python, AWS"}]}`)
	w = send(t, app, http.MethodPost, "/api/v1/analyses/"+analysis.ID+"/apply", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var improved struct {
		ID           string `json:"id"`
		DocumentID   string `json:"documentId"`
		ImprovedText string `json:"improvedText"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &improved))
	assert.Equal(t, doc.DocumentID, improved.DocumentID)
	assert.True(t, strings.Contains(improved.ImprovedText, "JavaScript, SQL, Python, AWS"))

	w = send(t, app, http.MethodGet, "/api/v1/improved-resumes/"+improved.ID+"/download", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, improved.ImprovedText, w.Body.String())

	w = send(t, app, http.MethodGet, "/api/v1/usage", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u struct {
		Used      int `json:"used"`
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, 1, u.Used)
	assert.Equal(t, 1, u.Remaining)
}
