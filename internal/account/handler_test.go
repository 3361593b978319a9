package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobprep-backend/internal/analyses"
	"jobprep-backend/internal/documents"
	"jobprep-backend/internal/improvedresumes"
	"jobprep-backend/internal/shared/server/middleware"
)

type repos struct {
	docs     *documents.MemoryRepo
	analyses *analyses.MemoryRepo
	improved *improvedresumes.MemoryRepo
}

func newTestRouter() (*gin.Engine, repos) {
	gin.SetMode(gin.TestMode)
	r := repos{
		docs:     documents.NewMemoryRepo(),
		analyses: analyses.NewMemoryRepo(),
		improved: improvedresumes.NewMemoryRepo(),
	}
	svc := &Service{Documents: r.docs, Analyses: r.analyses, ImprovedResumes: r.improved}

	router := gin.New()
	api := router.Group("/api/v1", middleware.Identity())
	NewHandler(svc).RegisterRoutes(api)
	return router, r
}

func claim(router http.Handler, userID, guestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if guestID != "" {
		req.Header.Set("X-Guest-Id", guestID)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestClaimGuestMigratesData(t *testing.T) {
	router, r := newTestRouter()
	ctx := context.Background()
	guestUserID := "guest:g-1"
	now := time.Now().UTC()

	if err := r.docs.Create(ctx, documents.Document{ID: "doc-1", UserID: guestUserID, FileName: "resume.pdf", CreatedAt: now}); err != nil {
		t.Fatalf("create document: %v", err)
	}
	if err := r.analyses.Create(ctx, analyses.Analysis{ID: "analysis-1", UserID: guestUserID, DocumentID: "doc-1", CreatedAt: now}); err != nil {
		t.Fatalf("create analysis: %v", err)
	}
	if err := r.improved.Create(ctx, improvedresumes.ImprovedResume{ID: "ir-1", UserID: guestUserID, AnalysisID: "analysis-1", CreatedAt: now}); err != nil {
		t.Fatalf("create improved resume: %v", err)
	}

	resp := claim(router, "user-1", "g-1")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result ClaimResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result != (ClaimResult{MigratedDocuments: 1, MigratedAnalyses: 1, MigratedImprovedResumes: 1}) {
		t.Fatalf("unexpected result: %+v", result)
	}

	if _, err := r.analyses.GetByID(ctx, "user-1", "analysis-1"); err != nil {
		t.Fatalf("analysis not claimed: %v", err)
	}
	if _, err := r.improved.GetByID(ctx, "user-1", "ir-1"); err != nil {
		t.Fatalf("improved resume not claimed: %v", err)
	}
	docs, err := r.docs.ListByUser(ctx, "user-1", 10, 0)
	if err != nil || len(docs) != 1 {
		t.Fatalf("expected 1 migrated doc, got %d (%v)", len(docs), err)
	}
	if guestDocs, _ := r.docs.ListByUser(ctx, guestUserID, 10, 0); len(guestDocs) != 0 {
		t.Fatalf("expected guest to have no documents left, got %d", len(guestDocs))
	}
}

func TestClaimGuestIdempotentAndValidated(t *testing.T) {
	router, r := newTestRouter()
	if err := r.docs.Create(context.Background(), documents.Document{ID: "doc-2", UserID: "guest:g-2", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create document: %v", err)
	}

	if resp := claim(router, "user-1", "g-2"); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	resp := claim(router, "user-1", "g-2")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 on repeat call, got %d", resp.Code)
	}
	var result ClaimResult
	_ = json.Unmarshal(resp.Body.Bytes(), &result)
	if result.MigratedDocuments != 0 {
		t.Fatalf("expected nothing left to claim, got %+v", result)
	}

	if resp := claim(router, "", "g-2"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("guest-only request: expected 401, got %d", resp.Code)
	}
	if resp := claim(router, "user-1", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing guest header: expected 400, got %d", resp.Code)
	}
	if resp := claim(router, "guest:g-3", "g-3"); resp.Code != http.StatusBadRequest {
		t.Fatalf("self claim: expected 400, got %d", resp.Code)
	}
}
