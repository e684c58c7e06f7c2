package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

// GetApplicantIDByEmail 按邮箱查找已有的申请记录
// 查不到不算错误，通过第二个返回值区分
func (r *Repository) GetApplicantIDByEmail(email string) (int64, bool, error) {
	query := `
		SELECT id FROM applicants WHERE email = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}

	return id, true, nil
}

func (r *Repository) insertApplicantChildren(ctx context.Context, tx *sql.Tx, applicant *domain.Applicant) error {
	for i, response := range applicant.FRQResponses {
		query := `
			INSERT INTO applicant_frq_responses (applicant_id, position, question_id, question_text, answer)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, applicant.ID, i, response.QuestionID, response.QuestionText, response.Answer); err != nil {
			return err
		}
	}

	for _, slotID := range applicant.SelectedSlots {
		query := `
			INSERT INTO applicant_selected_slots (applicant_id, slot_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, applicant.ID, slotID); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) InsertApplicant(applicant *domain.Applicant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO applicants (first_name, last_name, email, phone, major, graduation_year, resume_url, status, assigned_slot_id, applied_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, version
	`

	args := []any{
		applicant.FirstName,
		applicant.LastName,
		applicant.Email,
		applicant.Phone,
		applicant.Major,
		applicant.GraduationYear,
		applicant.ResumeURL,
		applicant.Status,
		applicant.AssignedSlotID,
		applicant.AppliedAt,
		applicant.LastUpdatedAt,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&applicant.ID, &applicant.Version); err != nil {
		return err
	}

	if err := r.insertApplicantChildren(ctx, tx, applicant); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateApplicantByID 用新的提交整体覆盖已有的申请记录
// 子表记录先删除再插入，整个覆盖在一个事务中完成
func (r *Repository) UpdateApplicantByID(id int64, applicant *domain.Applicant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE applicants
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			phone = $4,
			major = $5,
			graduation_year = $6,
			resume_url = $7,
			status = $8,
			assigned_slot_id = $9,
			applied_at = $10,
			last_updated_at = $11,
			version = version + 1
		WHERE id = $12
		RETURNING version
	`

	args := []any{
		applicant.FirstName,
		applicant.LastName,
		applicant.Email,
		applicant.Phone,
		applicant.Major,
		applicant.GraduationYear,
		applicant.ResumeURL,
		applicant.Status,
		applicant.AssignedSlotID,
		applicant.AppliedAt,
		applicant.LastUpdatedAt,
		id,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&applicant.Version); err != nil {
		return err
	}
	applicant.ID = id

	// 先把旧的子表记录删掉再插入新的
	for _, table := range []string{"applicant_frq_responses", "applicant_selected_slots", "applicant_notes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE applicant_id = $1`, id); err != nil {
			return err
		}
	}

	if err := r.insertApplicantChildren(ctx, tx, applicant); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) getApplicantChildren(ctx context.Context, applicant *domain.Applicant) error {
	query := `
		SELECT question_id, question_text, answer
		FROM applicant_frq_responses
		WHERE applicant_id = $1
		ORDER BY position
	`
	rows, err := r.dbpool.QueryContext(ctx, query, applicant.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		response := domain.FRQResponse{}
		if err := rows.Scan(&response.QuestionID, &response.QuestionText, &response.Answer); err != nil {
			return err
		}
		applicant.FRQResponses = append(applicant.FRQResponses, response)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	query = `
		SELECT slot_id FROM applicant_selected_slots WHERE applicant_id = $1
	`
	slotRows, err := r.dbpool.QueryContext(ctx, query, applicant.ID)
	if err != nil {
		return err
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var slotID string
		if err := slotRows.Scan(&slotID); err != nil {
			return err
		}
		applicant.SelectedSlots = append(applicant.SelectedSlots, slotID)
	}
	if err := slotRows.Err(); err != nil {
		return err
	}

	query = `
		SELECT id, author, content, created_at
		FROM applicant_notes
		WHERE applicant_id = $1
		ORDER BY created_at
	`
	noteRows, err := r.dbpool.QueryContext(ctx, query, applicant.ID)
	if err != nil {
		return err
	}
	defer noteRows.Close()

	for noteRows.Next() {
		note := domain.ApplicantNote{}
		if err := noteRows.Scan(&note.ID, &note.Author, &note.Content, &note.CreatedAt); err != nil {
			return err
		}
		applicant.Notes = append(applicant.Notes, note)
	}
	if err := noteRows.Err(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetApplicantByID(id int64) (*domain.Applicant, error) {
	query := `
		SELECT first_name, last_name, email, phone, major, graduation_year, resume_url, status, assigned_slot_id, applied_at, last_updated_at, version
		FROM applicants WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	applicant := &domain.Applicant{
		ID:            id,
		FRQResponses:  make([]domain.FRQResponse, 0),
		SelectedSlots: make([]string, 0),
		Notes:         make([]domain.ApplicantNote, 0),
	}

	dst := []any{
		&applicant.FirstName,
		&applicant.LastName,
		&applicant.Email,
		&applicant.Phone,
		&applicant.Major,
		&applicant.GraduationYear,
		&applicant.ResumeURL,
		&applicant.Status,
		&applicant.AssignedSlotID,
		&applicant.AppliedAt,
		&applicant.LastUpdatedAt,
		&applicant.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := r.getApplicantChildren(ctx, applicant); err != nil {
		return nil, err
	}

	return applicant, nil
}

func (r *Repository) GetAllApplicants() ([]*domain.Applicant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, email, phone, major, graduation_year, resume_url, status, assigned_slot_id, applied_at, last_updated_at, version
		FROM applicants
		ORDER BY applied_at
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicantsMap := make(map[int64]*domain.Applicant)
	applicants := make([]*domain.Applicant, 0)

	for rows.Next() {
		applicant := &domain.Applicant{
			FRQResponses:  make([]domain.FRQResponse, 0),
			SelectedSlots: make([]string, 0),
			Notes:         make([]domain.ApplicantNote, 0),
		}
		dst := []any{
			&applicant.ID,
			&applicant.FirstName,
			&applicant.LastName,
			&applicant.Email,
			&applicant.Phone,
			&applicant.Major,
			&applicant.GraduationYear,
			&applicant.ResumeURL,
			&applicant.Status,
			&applicant.AssignedSlotID,
			&applicant.AppliedAt,
			&applicant.LastUpdatedAt,
			&applicant.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		applicantsMap[applicant.ID] = applicant
		applicants = append(applicants, applicant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 三张子表各自整表查询后在内存中按 applicant_id 归并
	// 避免多张兄弟子表 JOIN 导致的笛卡尔积
	query = `
		SELECT applicant_id, question_id, question_text, answer
		FROM applicant_frq_responses
		ORDER BY applicant_id, position
	`
	frqRows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer frqRows.Close()

	for frqRows.Next() {
		var applicantID int64
		response := domain.FRQResponse{}
		if err := frqRows.Scan(&applicantID, &response.QuestionID, &response.QuestionText, &response.Answer); err != nil {
			return nil, err
		}
		if applicant, exists := applicantsMap[applicantID]; exists {
			applicant.FRQResponses = append(applicant.FRQResponses, response)
		}
	}
	if err := frqRows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT applicant_id, slot_id FROM applicant_selected_slots
	`
	slotRows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var applicantID int64
		var slotID string
		if err := slotRows.Scan(&applicantID, &slotID); err != nil {
			return nil, err
		}
		if applicant, exists := applicantsMap[applicantID]; exists {
			applicant.SelectedSlots = append(applicant.SelectedSlots, slotID)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT applicant_id, id, author, content, created_at
		FROM applicant_notes
		ORDER BY applicant_id, created_at
	`
	noteRows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer noteRows.Close()

	for noteRows.Next() {
		var applicantID int64
		note := domain.ApplicantNote{}
		if err := noteRows.Scan(&applicantID, &note.ID, &note.Author, &note.Content, &note.CreatedAt); err != nil {
			return nil, err
		}
		if applicant, exists := applicantsMap[applicantID]; exists {
			applicant.Notes = append(applicant.Notes, note)
		}
	}
	if err := noteRows.Err(); err != nil {
		return nil, err
	}

	return applicants, nil
}

// UpdateApplicantReview 更新审核相关的字段（状态和分配的面试时间段）
// 带乐观锁，避免两个审核人互相覆盖
func (r *Repository) UpdateApplicantReview(applicant *domain.Applicant) error {
	query := `
		UPDATE applicants
		SET
			status = $1,
			assigned_slot_id = $2,
			last_updated_at = now(),
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING last_updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{applicant.Status, applicant.AssignedSlotID, applicant.ID, applicant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&applicant.LastUpdatedAt, &applicant.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) AddApplicantNote(applicantID int64, note *domain.ApplicantNote) error {
	query := `
		INSERT INTO applicant_notes (applicant_id, author, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, applicantID, note.Author, note.Content).Scan(&note.ID, &note.CreatedAt); err != nil {
		return err
	}

	return nil
}
