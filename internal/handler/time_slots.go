package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
)

func (h *Handler) GetAllTimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.repository.GetAllTimeSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取时间段列表成功", slots)
}

func (h *Handler) GetTimeSlot(w http.ResponseWriter, r *http.Request) {
	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)
	h.successResponse(w, r, "获取时间段成功", slot)
}

func (h *Handler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek    string `json:"dayOfWeek" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
		StartTime    string `json:"startTime" validate:"required"`
		EndTime      string `json:"endTime" validate:"required"`
		Room         string `json:"room" validate:"required"`
		DisplayLabel string `json:"displayLabel" validate:"required"`
		MaxCapacity  int32  `json:"maxCapacity" validate:"required,gt=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot := &domain.TimeSlot{
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Room:         req.Room,
		DisplayLabel: req.DisplayLabel,
		MaxCapacity:  req.MaxCapacity,
		IsActive:     true,
	}

	if err := utils.ValidateTimeSlotTime(slot); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	// 检查是否和已有时间段冲突
	existing, err := h.repository.GetAllTimeSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateTimeSlotOverlap(slot, existing); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.CreateTimeSlot(slot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建时间段成功", slot)
}

func (h *Handler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek    *string `json:"dayOfWeek" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
		StartTime    *string `json:"startTime"`
		EndTime      *string `json:"endTime"`
		Room         *string `json:"room"`
		DisplayLabel *string `json:"displayLabel"`
		MaxCapacity  *int32  `json:"maxCapacity" validate:"omitempty,gt=0"`
		IsActive     *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.Room != nil {
		slot.Room = *req.Room
	}
	if req.DisplayLabel != nil {
		slot.DisplayLabel = *req.DisplayLabel
	}
	if req.MaxCapacity != nil {
		// 容量上限不允许被调低到已分配的人数之下
		assigned, err := h.repository.CountAssignedToTimeSlot(slot.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if *req.MaxCapacity < assigned {
			h.errorResponse(w, r, "容量上限不能小于已分配到该时间段的人数")
			return
		}
		slot.MaxCapacity = *req.MaxCapacity
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := utils.ValidateTimeSlotTime(slot); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	existing, err := h.repository.GetAllTimeSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if err := utils.ValidateTimeSlotOverlap(slot, existing); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.UpdateTimeSlot(slot); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新时间段失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新时间段成功", slot)
}

func (h *Handler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)

	// 已经有申请人勾选过的时间段不允许删除，只允许停用
	// 否则会破坏已提交申请中的勾选记录
	isReferenced, err := h.repository.CheckTimeSlotIfReferenced(slot.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if isReferenced {
		slot.IsActive = false
		if err := h.repository.UpdateTimeSlot(slot); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "停用时间段失败，请重试")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		h.successResponse(w, r, "时间段已被申请人勾选过，已改为停用", slot)
		return
	}

	if err := h.repository.DeleteTimeSlot(slot.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除时间段成功", nil)
}
