package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/wizard"
)

// GetRecruitment 是面向申请人的公开接口
// 返回当前招新是否开放、简答题列表和按天分组后的面试时间段
func (h *Handler) GetRecruitment(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		ApplicationsOpen bool                 `json:"applicationsOpen"`
		FRQQuestions     []domain.FRQQuestion `json:"frqQuestions"`
		Days             []wizard.DayPeriods  `json:"days"`
	}

	cfg, err := h.repository.GetRecruitmentConfig()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 还没有配置招新信息时，对外表现为招新未开放
			resp.ApplicationsOpen = false
			resp.FRQQuestions = []domain.FRQQuestion{}
			resp.Days = []wizard.DayPeriods{}
			h.successResponse(w, r, "获取招新信息成功", resp)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slots, err := h.repository.GetActiveTimeSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slotValues := make([]domain.TimeSlot, len(slots))
	for i, slot := range slots {
		slotValues[i] = *slot
	}

	resp.ApplicationsOpen = cfg.ApplicationsOpen
	resp.FRQQuestions = cfg.FRQQuestions
	resp.Days = wizard.GroupPeriods(slotValues)

	h.successResponse(w, r, "获取招新信息成功", resp)
}

func (h *Handler) GetRecruitmentConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repository.GetRecruitmentConfig()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "招新配置不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取招新配置成功", cfg)
}

func (h *Handler) UpdateRecruitmentConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ApplicationsOpen *bool                 `json:"applicationsOpen"`
		FRQQuestions     *[]domain.FRQQuestion `json:"frqQuestions" validate:"omitempty,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	cfg, err := h.repository.GetRecruitmentConfig()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "招新配置不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.ApplicationsOpen != nil {
		cfg.ApplicationsOpen = *req.ApplicationsOpen
	}
	if req.FRQQuestions != nil {
		for _, question := range *req.FRQQuestions {
			if question.ID == "" || question.Question == "" {
				h.errorResponse(w, r, "简答题的编号和题目不能为空")
				return
			}
			if question.MaxWords <= 0 {
				h.errorResponse(w, r, "简答题的字数上限必须大于 0")
				return
			}
		}
		cfg.FRQQuestions = *req.FRQQuestions
	}

	if err := h.repository.UpdateRecruitmentConfig(cfg); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新招新配置失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新招新配置成功", cfg)
}
