// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"secure-auth-api/logger"
	"secure-auth-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh-session persistence.
// Rows are keyed by the token value itself. DeleteByToken must be an atomic
// check-and-delete: when two requests race to consume the same token, exactly
// one caller may observe true.
type ITokenRepository interface {
	Create(session *model.RefreshSession) error
	GetByToken(token string) (*model.RefreshSession, error)
	DeleteByToken(token string) (bool, error)
	DeleteAllByUser(userID uuid.UUID) (int64, error)
}

// TokenRepository implements ITokenRepository over PostgreSQL.
// Token values are bearer credentials and are never written to the log.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh session row.
func (r *TokenRepository) Create(session *model.RefreshSession) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
	})

	query := `INSERT INTO refresh_sessions (token, user_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.DB.QueryRow(query, session.Token, session.UserID, session.ExpiresAt).Scan(&session.CreatedAt); err != nil {
		log.WithError(err).Error("Failed to execute create refresh session query")
		return err
	}
	return nil
}

// GetByToken retrieves a refresh session by its token value.
// A missing row is reported as (nil, nil), not an error.
func (r *TokenRepository) GetByToken(token string) (*model.RefreshSession, error) {
	session := &model.RefreshSession{}
	query := `SELECT token, user_id, expires_at, created_at FROM refresh_sessions WHERE token = $1`
	err := r.DB.QueryRow(query, token).Scan(&session.Token, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get refresh session query")
		return nil, err
	}
	return session, nil
}

// DeleteByToken removes a session row and reports whether one existed.
// The single DELETE makes the check and the removal one operation, so a
// token presented twice concurrently is consumed at most once.
func (r *TokenRepository) DeleteByToken(token string) (bool, error) {
	query := `DELETE FROM refresh_sessions WHERE token = $1`
	res, err := r.DB.Exec(query, token)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete refresh session query")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteAllByUser deletes every refresh session for a user and returns the
// number of sessions revoked. This is used for logging out from all devices.
func (r *TokenRepository) DeleteAllByUser(userID uuid.UUID) (int64, error) {
	log := logger.Log.WithField("user_id", userID)

	query := `DELETE FROM refresh_sessions WHERE user_id = $1`
	res, err := r.DB.Exec(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh sessions query")
		return 0, err
	}
	return res.RowsAffected()
}
