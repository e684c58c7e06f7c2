package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

// 招新配置在数据库中只有一行，问题列表以 jsonb 存储
// 问题本身没有独立的生命周期，冗余规范化没有意义

func (r *Repository) GetRecruitmentConfig() (*domain.RecruitmentConfig, error) {
	query := `
		SELECT id, applications_open, frq_questions, updated_at, version
		FROM recruitment_config
		LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	cfg := &domain.RecruitmentConfig{}
	var questionsJSON []byte

	dst := []any{&cfg.ID, &cfg.ApplicationsOpen, &questionsJSON, &cfg.UpdatedAt, &cfg.Version}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &cfg.FRQQuestions); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (r *Repository) CreateRecruitmentConfig(cfg *domain.RecruitmentConfig) error {
	questionsJSON, err := json.Marshal(cfg.FRQQuestions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO recruitment_config (applications_open, frq_questions)
		VALUES ($1, $2)
		RETURNING id, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, cfg.ApplicationsOpen, questionsJSON).Scan(&cfg.ID, &cfg.UpdatedAt, &cfg.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRecruitmentConfig(cfg *domain.RecruitmentConfig) error {
	questionsJSON, err := json.Marshal(cfg.FRQQuestions)
	if err != nil {
		return err
	}

	query := `
		UPDATE recruitment_config
		SET
			applications_open = $1,
			frq_questions = $2,
			updated_at = now(),
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{cfg.ApplicationsOpen, questionsJSON, cfg.ID, cfg.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&cfg.UpdatedAt, &cfg.Version); err != nil {
		return err
	}

	return nil
}
