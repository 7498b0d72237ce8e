package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusnet/internal/app/models"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
	"github.com/yigit/campusnet/internal/pkg/dberrors"
)

// CredentialRepository stores linked social accounts
type CredentialRepository struct {
	db *pgxpool.Pool
}

// NewCredentialRepository creates a new CredentialRepository
func NewCredentialRepository(db *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save creates or replaces the user's credential
func (r *CredentialRepository) Save(ctx context.Context, c *models.SocialCredential) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO social_credentials (user_id, provider, access_token, external_account_id, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			access_token = EXCLUDED.access_token,
			external_account_id = EXCLUDED.external_account_id,
			updated_at = NOW()
		RETURNING updated_at`,
		c.UserID, c.Provider, c.AccessToken, c.ExternalAccountID).Scan(&c.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.SocialCredentialsExternalKey) {
			return apperrors.NewConflictError("external account is linked to another user")
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetByUsername returns the credential of the user with this username
func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*models.SocialCredential, error) {
	var c models.SocialCredential
	err := r.db.QueryRow(ctx, `
		SELECT sc.user_id, sc.provider, sc.access_token, sc.external_account_id, sc.updated_at
		FROM social_credentials sc
		JOIN users u ON u.id = sc.user_id
		WHERE u.username = $1`, username).
		Scan(&c.UserID, &c.Provider, &c.AccessToken, &c.ExternalAccountID, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &c, nil
}
