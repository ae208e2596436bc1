package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, name, email, push_tokens, allows_notifications, created_on
	          FROM users WHERE id = $1`

	u := &domain.User{}
	var tokensJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &tokensJSON, &u.AllowsNotifications, &u.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if len(tokensJSON) > 0 {
		if err := json.Unmarshal(tokensJSON, &u.PushTokens); err != nil {
			return nil, fmt.Errorf("malformed push_tokens for user %s: %w", id, err)
		}
	}
	return u, nil
}
