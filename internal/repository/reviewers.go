package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func (r *Repository) GetReviewerByID(id int64) (*domain.Reviewer, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, is_active, created_at, version
		FROM reviewers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reviewer := &domain.Reviewer{
		ID: id,
	}

	dst := []any{&reviewer.Username, &reviewer.PasswordHash, &reviewer.FullName, &reviewer.Email, &reviewer.Role, &reviewer.IsActive, &reviewer.CreatedAt, &reviewer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return reviewer, nil
}

func (r *Repository) GetReviewerByUsername(username string) (*domain.Reviewer, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, is_active, created_at, version
		FROM reviewers WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	reviewer := &domain.Reviewer{
		Username: username,
	}

	dst := []any{&reviewer.ID, &reviewer.PasswordHash, &reviewer.FullName, &reviewer.Email, &reviewer.Role, &reviewer.IsActive, &reviewer.CreatedAt, &reviewer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return reviewer, nil
}

func (r *Repository) GetAllReviewers() ([]*domain.Reviewer, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, is_active, created_at, version FROM reviewers
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviewers := make([]*domain.Reviewer, 0)
	for rows.Next() {
		reviewer := &domain.Reviewer{}
		dst := []any{&reviewer.ID, &reviewer.Username, &reviewer.PasswordHash, &reviewer.FullName, &reviewer.Email, &reviewer.Role, &reviewer.IsActive, &reviewer.CreatedAt, &reviewer.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reviewers = append(reviewers, reviewer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviewers, nil
}

func (r *Repository) CreateReviewer(reviewer *domain.Reviewer) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO reviewers (username, password_hash, full_name, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	args := []any{reviewer.Username, reviewer.PasswordHash, reviewer.FullName, reviewer.Email, reviewer.Role}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&reviewer.ID, &reviewer.IsActive, &reviewer.CreatedAt, &reviewer.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateReviewer(reviewer *domain.Reviewer) error {
	query := `
		UPDATE reviewers
		SET
		    password_hash = $1,
			full_name = $2,
			email = $3,
			role = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING username, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{reviewer.PasswordHash, reviewer.FullName, reviewer.Email, reviewer.Role, reviewer.IsActive, reviewer.ID, reviewer.Version}
	dst := []any{&reviewer.Username, &reviewer.CreatedAt, &reviewer.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteReviewer(id int64) error {
	query := `
		DELETE FROM reviewers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckReviewerEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM reviewers WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
