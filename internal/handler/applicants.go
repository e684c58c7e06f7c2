package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/interview"
)

func (h *Handler) GetAllApplicants(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.repository.GetAllApplicants()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请人列表成功", applicants)
}

func (h *Handler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	applicant := r.Context().Value(ApplicantCtx).(*domain.Applicant)
	h.successResponse(w, r, "获取申请人信息成功", applicant)
}

func (h *Handler) UpdateApplicantStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=applied interviewing offered rejected"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	applicant := r.Context().Value(ApplicantCtx).(*domain.Applicant)
	applicant.Status = domain.ApplicantStatus(req.Status)

	if err := h.repository.UpdateApplicantReview(applicant); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新申请人状态失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新申请人状态成功", applicant)
}

func (h *Handler) AddApplicantNote(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Reviewer)
	applicant := r.Context().Value(ApplicantCtx).(*domain.Applicant)

	var req struct {
		Content string `json:"content" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	note := &domain.ApplicantNote{
		Author:  myInfo.FullName,
		Content: req.Content,
	}

	if err := h.repository.AddApplicantNote(applicant.ID, note); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "添加面试记录成功", note)
}

func (h *Handler) AssignApplicantSlot(w http.ResponseWriter, r *http.Request) {
	applicant := r.Context().Value(ApplicantCtx).(*domain.Applicant)

	var req struct {
		SlotID string `json:"slotId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只允许分配申请人自己勾选过的时间段
	if !slices.Contains(applicant.SelectedSlots, req.SlotID) {
		h.errorResponse(w, r, "申请人没有勾选过这个时间段")
		return
	}

	slot, err := h.repository.GetTimeSlotByID(req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "时间段不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !slot.IsActive {
		h.errorResponse(w, r, "时间段已被停用")
		return
	}

	// 检查容量上限
	assigned, err := h.repository.CountAssignedToTimeSlot(slot.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if applicant.AssignedSlotID == nil || *applicant.AssignedSlotID != slot.ID {
		if assigned >= slot.MaxCapacity {
			h.errorResponse(w, r, "时间段已满")
			return
		}
	}

	applicant.AssignedSlotID = &slot.ID
	applicant.Status = domain.StatusInterviewing

	if err := h.repository.UpdateApplicantReview(applicant); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "分配时间段失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.publishInterviewAssignedMail(applicant, slot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "分配时间段成功", applicant)
}

// GenerateAssignments 使用遗传算法为所有还没有面试时间段的申请人自动分配时间段
func (h *Handler) GenerateAssignments(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.repository.GetAllApplicants()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 只给还在申请状态且没有被分配过的申请人分配
	pending := make([]*domain.Applicant, 0)
	for _, applicant := range applicants {
		if applicant.Status == domain.StatusApplied && applicant.AssignedSlotID == nil {
			pending = append(pending, applicant)
		}
	}

	if len(pending) == 0 {
		h.errorResponse(w, r, "没有需要分配时间段的申请人")
		return
	}

	slots, err := h.repository.GetActiveTimeSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 手动分配过的申请人已经占用了一部分容量，自动分配只能用剩下的名额
	occupied := make(map[string]int32)
	for _, slot := range slots {
		cnt, err := h.repository.CountAssignedToTimeSlot(slot.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		occupied[slot.ID] = cnt
	}

	assigner, err := interview.New(&interview.Parameters{
		PopulationSize:    h.config.Assignment.PopulationSize,
		MaxGenerations:    h.config.Assignment.MaxGenerations,
		CrossoverRate:     h.config.Assignment.CrossoverRate,
		MutationRate:      h.config.Assignment.MutationRate,
		EliteCount:        h.config.Assignment.EliteCount,
		LoadBalanceWeight: h.config.Assignment.LoadBalanceWeight,
	}, pending, slots, occupied)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := assigner.Assign()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slotMap := make(map[string]*domain.TimeSlot)
	for _, slot := range slots {
		slotMap[slot.ID] = slot
	}

	assignedCount := 0
	for _, applicant := range pending {
		slotID, exists := result[applicant.ID]
		if !exists {
			continue
		}

		applicant.AssignedSlotID = &slotID
		applicant.Status = domain.StatusInterviewing

		if err := h.repository.UpdateApplicantReview(applicant); err != nil {
			h.internalServerError(w, r, err)
			return
		}

		if err := h.publishInterviewAssignedMail(applicant, slotMap[slotID]); err != nil {
			h.internalServerError(w, r, err)
			return
		}

		assignedCount++
	}

	h.successResponse(w, r, "自动分配时间段成功", map[string]int{
		"assigned":   assignedCount,
		"unassigned": len(pending) - assignedCount,
	})
}

func (h *Handler) publishInterviewAssignedMail(applicant *domain.Applicant, slot *domain.TimeSlot) error {
	mailMessage := domain.MailMessage{
		Type: "interview_assigned",
		To:   applicant.Email,
		Data: domain.InterviewAssignedMailData{
			FirstName: applicant.FirstName,
			LastName:  applicant.LastName,
			SlotLabel: slot.DayOfWeek + " " + slot.DisplayLabel,
			Room:      slot.Room,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}
