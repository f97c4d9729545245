package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/muski85/ai-therapist-agent22-backend-clean/core/db"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
)

type userStore struct {
	db *db.DB
}

func newUserStore(database *db.DB) UserStore {
	return &userStore{db: database}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT id, name, email, avatar_url, created_at, updated_at
		 FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT id, name, email, avatar_url, created_at, updated_at
		 FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.db.Pool().QueryRow(ctx,
		`INSERT INTO users (id, name, email, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, avatar_url, created_at, updated_at`,
		user.ID, user.Name, user.Email, user.AvatarURL)

	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Pool().Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
