package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func TestValidateTimeSlotTime(t *testing.T) {
	slot := &domain.TimeSlot{StartTime: "16:00", EndTime: "16:30"}
	require.NoError(t, ValidateTimeSlotTime(slot))

	slot = &domain.TimeSlot{StartTime: "16:30", EndTime: "16:00"}
	require.Error(t, ValidateTimeSlotTime(slot))

	slot = &domain.TimeSlot{StartTime: "16:00", EndTime: "16:00"}
	require.Error(t, ValidateTimeSlotTime(slot))

	slot = &domain.TimeSlot{StartTime: "4pm", EndTime: "17:00"}
	require.Error(t, ValidateTimeSlotTime(slot))
}

func TestValidateTimeSlotOverlap(t *testing.T) {
	existing := []*domain.TimeSlot{
		{ID: "a", DayOfWeek: "Monday", StartTime: "16:00", EndTime: "17:00", Room: "101"},
	}

	// 同一天同一房间时间重叠
	slot := &domain.TimeSlot{ID: "b", DayOfWeek: "Monday", StartTime: "16:30", EndTime: "17:30", Room: "101"}
	require.Error(t, ValidateTimeSlotOverlap(slot, existing))

	// 不同房间不算冲突
	slot = &domain.TimeSlot{ID: "b", DayOfWeek: "Monday", StartTime: "16:30", EndTime: "17:30", Room: "102"}
	require.NoError(t, ValidateTimeSlotOverlap(slot, existing))

	// 不同天不算冲突
	slot = &domain.TimeSlot{ID: "b", DayOfWeek: "Tuesday", StartTime: "16:00", EndTime: "17:00", Room: "101"}
	require.NoError(t, ValidateTimeSlotOverlap(slot, existing))

	// 首尾相接不算冲突
	slot = &domain.TimeSlot{ID: "b", DayOfWeek: "Monday", StartTime: "17:00", EndTime: "18:00", Room: "101"}
	require.NoError(t, ValidateTimeSlotOverlap(slot, existing))

	// 和自己不算冲突（更新时间段的场景）
	slot = &domain.TimeSlot{ID: "a", DayOfWeek: "Monday", StartTime: "16:00", EndTime: "17:30", Room: "101"}
	require.NoError(t, ValidateTimeSlotOverlap(slot, existing))
}

func TestValidateAssignmentWithSelections(t *testing.T) {
	applicants := []*domain.Applicant{
		{ID: 1, SelectedSlots: []string{"a", "b"}},
		{ID: 2, SelectedSlots: []string{"b"}},
	}

	require.NoError(t, ValidateAssignmentWithSelections(map[int64]string{1: "a", 2: "b"}, applicants))

	// 分配了申请人没有勾选过的时间段
	require.Error(t, ValidateAssignmentWithSelections(map[int64]string{2: "a"}, applicants))

	// 分配结果中出现了未知的申请人
	require.Error(t, ValidateAssignmentWithSelections(map[int64]string{3: "a"}, applicants))
}

func TestValidateAssignmentCapacity(t *testing.T) {
	slots := []*domain.TimeSlot{
		{ID: "a", MaxCapacity: 1},
		{ID: "b", MaxCapacity: 2},
	}

	require.NoError(t, ValidateAssignmentCapacity(map[int64]string{1: "a", 2: "b", 3: "b"}, slots))

	// a 的容量上限是 1
	require.Error(t, ValidateAssignmentCapacity(map[int64]string{1: "a", 2: "a"}, slots))

	// 未知时间段
	require.Error(t, ValidateAssignmentCapacity(map[int64]string{1: "c"}, slots))
}
