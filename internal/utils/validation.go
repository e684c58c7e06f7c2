package utils

import (
	"fmt"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func ValidateTimeSlotTime(slot *domain.TimeSlot) error {
	startTime, err := time.Parse("15:04", slot.StartTime)
	if err != nil {
		return fmt.Errorf("时间段的开始时间格式错误")
	}
	endTime, err := time.Parse("15:04", slot.EndTime)
	if err != nil {
		return fmt.Errorf("时间段的结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("时间段的结束时间必须大于开始时间")
	}
	return nil
}

// 检查新的时间段是否和已有的时间段冲突
// 只有同一天同一个房间的时间段之间才可能冲突
func ValidateTimeSlotOverlap(slot *domain.TimeSlot, existing []*domain.TimeSlot) error {
	startTime, _ := time.Parse("15:04", slot.StartTime)
	endTime, _ := time.Parse("15:04", slot.EndTime)

	for _, other := range existing {
		if other.ID == slot.ID {
			continue
		}
		if other.DayOfWeek != slot.DayOfWeek || other.Room != slot.Room {
			continue
		}

		otherStartTime, _ := time.Parse("15:04", other.StartTime)
		otherEndTime, _ := time.Parse("15:04", other.EndTime)

		if !(otherStartTime.After(endTime) || otherStartTime.Equal(endTime) || startTime.After(otherEndTime) || startTime.Equal(otherEndTime)) {
			return fmt.Errorf("时间段和已有的时间段 %s 冲突", other.ID)
		}
	}
	return nil
}

func getApplicantByID(applicants []*domain.Applicant, applicantID int64) *domain.Applicant {
	for _, applicant := range applicants {
		if applicant.ID == applicantID {
			return applicant
		}
	}
	return nil
}

// 检查分配结果中每个申请人拿到的时间段是不是都是他自己勾选过的
func ValidateAssignmentWithSelections(result map[int64]string, applicants []*domain.Applicant) error {
	for applicantID, slotID := range result {
		applicant := getApplicantByID(applicants, applicantID)
		if applicant == nil {
			return fmt.Errorf("分配结果中 id 为 %d 的申请人不在传入的申请人数组中", applicantID)
		}

		if !slices.Contains(applicant.SelectedSlots, slotID) {
			return fmt.Errorf("id 为 %d 的申请人没有勾选过时间段 %s", applicantID, slotID)
		}
	}
	return nil
}

// 检查分配结果中是否存在超出容量上限的时间段
func ValidateAssignmentCapacity(result map[int64]string, slots []*domain.TimeSlot) error {
	loadCnt := make(map[string]int32)
	for _, slotID := range result {
		loadCnt[slotID]++
	}

	for slotID, cnt := range loadCnt {
		var slot *domain.TimeSlot = nil
		for _, s := range slots {
			if s.ID == slotID {
				slot = s
				break
			}
		}

		if slot == nil {
			return fmt.Errorf("分配结果中的时间段 %s 不在传入的时间段数组中", slotID)
		}
		if cnt > slot.MaxCapacity {
			return fmt.Errorf("时间段 %s 被分配的人数超过了容量上限", slotID)
		}
	}
	return nil
}
