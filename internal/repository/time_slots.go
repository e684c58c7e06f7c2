package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func (r *Repository) scanTimeSlots(query string, args ...any) ([]*domain.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot := &domain.TimeSlot{}
		dst := []any{&slot.ID, &slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &slot.Room, &slot.DisplayLabel, &slot.MaxCapacity, &slot.IsActive, &slot.CreatedAt, &slot.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// GetActiveTimeSlots 返回所有生效中的时间段，按星期再按开始时间排序
func (r *Repository) GetActiveTimeSlots() ([]*domain.TimeSlot, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, room, display_label, max_capacity, is_active, created_at, version
		FROM time_slots
		WHERE is_active = true
		ORDER BY day_of_week, start_time
	`
	return r.scanTimeSlots(query)
}

func (r *Repository) GetAllTimeSlots() ([]*domain.TimeSlot, error) {
	query := `
		SELECT id, day_of_week, start_time, end_time, room, display_label, max_capacity, is_active, created_at, version
		FROM time_slots
		ORDER BY day_of_week, start_time, room
	`
	return r.scanTimeSlots(query)
}

func (r *Repository) GetTimeSlotByID(id string) (*domain.TimeSlot, error) {
	query := `
		SELECT day_of_week, start_time, end_time, room, display_label, max_capacity, is_active, created_at, version
		FROM time_slots WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	slot := &domain.TimeSlot{
		ID: id,
	}

	dst := []any{&slot.DayOfWeek, &slot.StartTime, &slot.EndTime, &slot.Room, &slot.DisplayLabel, &slot.MaxCapacity, &slot.IsActive, &slot.CreatedAt, &slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return slot, nil
}

func (r *Repository) CreateTimeSlot(slot *domain.TimeSlot) error {
	query := `
		INSERT INTO time_slots (day_of_week, start_time, end_time, room, display_label, max_capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.Room, slot.DisplayLabel, slot.MaxCapacity, slot.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &slot.CreatedAt, &slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTimeSlot(slot *domain.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET
			day_of_week = $1,
			start_time = $2,
			end_time = $3,
			room = $4,
			display_label = $5,
			max_capacity = $6,
			is_active = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.Room, slot.DisplayLabel, slot.MaxCapacity, slot.IsActive, slot.ID, slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&slot.CreatedAt, &slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTimeSlot(id string) error {
	query := `
		DELETE FROM time_slots WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// CheckTimeSlotIfReferenced 检查是否有申请人选择过这个时间段
// 被引用过的时间段只应该停用而不应该删除
func (r *Repository) CheckTimeSlotIfReferenced(id string) (bool, error) {
	isReferenced := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM applicant_selected_slots WHERE slot_id = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&isReferenced); err != nil {
		return false, err
	}

	return isReferenced, nil
}

// CountAssignedToTimeSlot 统计已被分配到某个时间段的申请人数量，用于容量检查
func (r *Repository) CountAssignedToTimeSlot(id string) (int32, error) {
	var count int32

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT COUNT(*) FROM applicants WHERE assigned_slot_id = $1
	`
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
