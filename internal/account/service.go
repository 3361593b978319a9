// Package account moves data created under a guest identity to a user.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jobprep-backend/internal/shared/telemetry"
)

// ErrInvalidInput indicates missing or identical identities.
var ErrInvalidInput = errors.New("invalid input")

// GuestClaimer reassigns one kind of record from a guest to a user.
type GuestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error)
}

// Service claims guest data. With DB set the three tables move in one
// transaction; otherwise each claimer runs in turn.
type Service struct {
	DB              *sql.DB
	Documents       GuestClaimer
	Analyses        GuestClaimer
	ImprovedResumes GuestClaimer
}

// ClaimResult counts the records that changed owner.
type ClaimResult struct {
	MigratedDocuments       int `json:"migratedDocuments"`
	MigratedAnalyses        int `json:"migratedAnalyses"`
	MigratedImprovedResumes int `json:"migratedImprovedResumes"`
}

// ClaimGuest moves the guest's documents, analyses and improved resumes to
// userID. Claiming twice is a no-op the second time.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, userID string) (ClaimResult, error) {
	guestUserID = strings.TrimSpace(guestUserID)
	userID = strings.TrimSpace(userID)
	if guestUserID == "" || userID == "" || guestUserID == userID {
		return ClaimResult{}, ErrInvalidInput
	}

	var (
		result ClaimResult
		err    error
	)
	if s.DB != nil {
		result, err = claimWithTx(ctx, s.DB, guestUserID, userID)
	} else {
		result, err = s.claimEach(ctx, guestUserID, userID)
	}
	if err != nil {
		return ClaimResult{}, err
	}

	telemetry.Info("account.guest_claimed", map[string]any{
		"user_id":          userID,
		"guest_user_id":    guestUserID,
		"documents":        result.MigratedDocuments,
		"analyses":         result.MigratedAnalyses,
		"improved_resumes": result.MigratedImprovedResumes,
	})
	return result, nil
}

func (s *Service) claimEach(ctx context.Context, guestUserID, userID string) (ClaimResult, error) {
	var result ClaimResult
	for _, step := range []struct {
		name    string
		claimer GuestClaimer
		count   *int
	}{
		{"documents", s.Documents, &result.MigratedDocuments},
		{"analyses", s.Analyses, &result.MigratedAnalyses},
		{"improved resumes", s.ImprovedResumes, &result.MigratedImprovedResumes},
	} {
		if step.claimer == nil {
			continue
		}
		n, err := step.claimer.ClaimGuest(ctx, guestUserID, userID)
		if err != nil {
			return ClaimResult{}, fmt.Errorf("claim %s: %w", step.name, err)
		}
		*step.count = n
	}
	return result, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, userID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	var result ClaimResult
	for _, step := range []struct {
		query string
		count *int
	}{
		{`UPDATE documents SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, &result.MigratedDocuments},
		{`UPDATE analyses SET user_id = $1 WHERE user_id = $2`, &result.MigratedAnalyses},
		{`UPDATE improved_resumes SET user_id = $1 WHERE user_id = $2 AND deleted_at IS NULL`, &result.MigratedImprovedResumes},
	} {
		res, err := tx.ExecContext(ctx, step.query, userID, guestUserID)
		if err != nil {
			return ClaimResult{}, err
		}
		n, _ := res.RowsAffected()
		*step.count = int(n)
	}

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return result, nil
}
