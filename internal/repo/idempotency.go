package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainops/go-booking-backend/internal/domain"
)

// ErrDuplicate indicates a unique-constraint violation when persisting an
// idempotency record (same user, period and key already stored).
var ErrDuplicate = errors.New("duplicate idempotency key")

// GetIdempotency returns the stored idempotency mapping for (userID, period,
// key) when it exists and has not expired at the given time. Returns
// ErrRecordNotFound semantics from GORM for missing or expired records.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, period, key string, now time.Time) (*domain.Idempotency, error) {
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND period = ? AND key = ? AND expires_at > ?", userID, period, key, now).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores the (userID, period, key) -> runID mapping with the
// given TTL. Returns ErrDuplicate when the triple already exists.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, period, key, runID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		Period:    period,
		Key:       key,
		RunID:     runID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// isUniqueViolation detects unique-constraint failures from the pure-Go
// SQLite driver, which surfaces them as plain errors with a well-known
// message prefix rather than a typed error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
