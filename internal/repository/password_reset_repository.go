package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lms/internal/models"
)

type PasswordResetRepository interface {
	// Replace deletes every existing token for the owning user and inserts
	// the new one in a single transaction, so at most one token per user
	// survives a concurrent pair of issuances.
	Replace(ctx context.Context, token *models.PasswordResetToken) error
	GetValidByUserAndHash(ctx context.Context, userID string, tokenHash string) (*models.PasswordResetToken, error)
	GetByUserAndHash(ctx context.Context, userID string, tokenHash string) (*models.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Replace(ctx context.Context, token *models.PasswordResetToken) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, token.UserID); err != nil {
		return err
	}

	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := tx.QueryRowContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt).Scan(&token.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *passwordResetRepository) GetValidByUserAndHash(ctx context.Context, userID string, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE user_id = $1
		AND token_hash = $2
		AND expires_at > (NOW() AT TIME ZONE 'UTC')
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reset token not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetRepository) GetByUserAndHash(ctx context.Context, userID string, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE user_id = $1
		AND token_hash = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t models.PasswordResetToken
	err := r.db.QueryRowContext(ctx, query, userID, tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reset token not found")
		}
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reset token not found")
	}
	return nil
}

// DeleteExpired physically removes expired rows. Validity never depends on
// this; it only keeps the table small.
func (r *passwordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE expires_at <= (NOW() AT TIME ZONE 'UTC')`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
