package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/utils"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/wizard"
)

// 申请草稿相关的接口
// 草稿是一份保存在 redis 中的表单状态机快照，申请人每次操作都会先恢复快照、
// 应用操作、再把新快照写回，所以申请人中途关闭页面后仍然可以继续填写

type draftFieldView struct {
	Field   wizard.Field `json:"field"`
	Value   string       `json:"value"`
	Touched bool         `json:"touched"`
	Error   string       `json:"error"`
}

type draftResumeView struct {
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
}

type draftView struct {
	ID             string               `json:"id"`
	Status         wizard.Status        `json:"status"`
	Step           int                  `json:"step"`
	Fields         []draftFieldView     `json:"fields"`
	Questions      []domain.FRQQuestion `json:"questions"`
	Answers        map[string]string    `json:"answers"`
	Resume         *draftResumeView     `json:"resume"`
	Errors         map[string]string    `json:"errors"`
	FileError      string               `json:"fileError"`
	Days           []wizard.DayPeriods  `json:"days"`
	SelectedSlots  []string             `json:"selectedSlots"`
	SubmitError    string               `json:"submitError"`
	SubmittedEmail string               `json:"submittedEmail"`
}

func (h *Handler) draftViewOf(draftID string, w *wizard.Wizard) *draftView {
	fields := make([]draftFieldView, 0)
	for _, fs := range w.FieldStatuses() {
		fields = append(fields, draftFieldView{
			Field:   fs.Field,
			Value:   fs.Status.Value,
			Touched: fs.Status.Touched,
			Error:   w.FieldError(fs.Field), // 错误只在字段失焦过之后才展示
		})
	}

	answers := make(map[string]string)
	for _, question := range w.Questions() {
		answers[question.ID] = w.Answer(question.ID)
	}

	var resume *draftResumeView
	if r := w.Resume(); r != nil {
		resume = &draftResumeView{
			Filename:  r.Filename,
			MediaType: r.MediaType,
			Size:      r.Size,
		}
	}

	return &draftView{
		ID:             draftID,
		Status:         w.Status(),
		Step:           w.Step(),
		Fields:         fields,
		Questions:      w.Questions(),
		Answers:        answers,
		Resume:         resume,
		Errors:         w.Errors(),
		FileError:      w.FileError(),
		Days:           w.Periods(),
		SelectedSlots:  w.SelectedSlotIDs(),
		SubmitError:    w.SubmitErrorMessage(),
		SubmittedEmail: w.SubmittedEmail(),
	}
}

func (h *Handler) saveDraft(ctx context.Context, draftID string, w *wizard.Wizard) error {
	data, err := w.ToJSON()
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	// 每次保存都重置过期时间，申请人只要还在填写草稿就不会过期
	return h.redisClient.Set(opCtx, fmt.Sprintf("draft_%s", draftID), data, time.Duration(h.config.Draft.Expiration)*time.Second).Err()
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repository.GetRecruitmentConfig()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "当前招新未开放")
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

	// 招新配置和时间段在创建草稿时固化到快照里
	// 草稿生命周期内配置变更不影响已经开始填写的申请人
	wiz := wizard.New(*cfg, slotValues)
	if wiz.Status() == wizard.StatusClosed {
		h.errorResponse(w, r, "当前招新未开放")
		return
	}

	draftID := utils.GenerateRandomID(8, 8)

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建申请草稿成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	h.successResponse(w, r, "获取申请草稿成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	if err := h.redisClient.Del(ctx, fmt.Sprintf("draft_%s", draftID)).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除申请草稿成功", nil)
}

func (h *Handler) UpdateDraftField(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	var req struct {
		Value string `json:"value"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	field := wizard.Field(chi.URLParam(r, "field"))
	if err := wiz.SetField(field, req.Value); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新字段成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) BlurDraftField(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	field := wizard.Field(chi.URLParam(r, "field"))
	if err := wiz.Blur(field); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "记录字段失焦成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) UpdateDraftAnswer(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	var req struct {
		Value string `json:"value"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	questionID := chi.URLParam(r, "questionID")
	accepted, err := wiz.SetAnswer(questionID, req.Value)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if !accepted {
		// 超出字数上限的输入整体拒绝，已保存的答案保持不变
		h.errorResponse(w, r, "回答超出字数上限")
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存回答成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) UploadDraftResume(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	// 多留 1MB 给表单本身的开销
	if err := r.ParseMultipartForm(wizard.MaxResumeSize + 1<<20); err != nil {
		h.errorResponse(w, r, "解析上传文件失败")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		h.errorResponse(w, r, "请选择要上传的简历文件")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if err := wiz.AttachResume(header.Filename, mediaType, header.Size, content); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "上传简历成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) ToggleDraftPeriod(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

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

	// 勾选以时段为单位，同一天同一时段的所有房间一起选中或取消
	if err := wiz.TogglePeriodContaining(req.SlotID); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新时间段勾选成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) DraftNextStep(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	advanced, err := wiz.Next()
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !advanced {
		h.errorResponse(w, r, "当前步骤还有未完成的内容")
		return
	}

	h.successResponse(w, r, "进入下一步成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) DraftPreviousStep(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	if err := wiz.Back(); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.saveDraft(r.Context(), draftID, wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "返回上一步成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	draftID := r.Context().Value(DraftIDCtx).(string)
	wiz := r.Context().Value(DraftCtx).(*wizard.Wizard)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	// 用 redis 锁防止同一份草稿的并发提交
	lockKey := fmt.Sprintf("draft_submit_%s", draftID)
	locked, err := h.redisClient.SetNX(ctx, lockKey, "1", time.Minute).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "上一次提交还未结束")
		return
	}
	defer h.redisClient.Del(ctx, lockKey)

	if err := wiz.Submit(r.Context(), wizard.Collaborators{
		Blob:       h.resumeStore,
		Applicants: h.repository,
	}); err != nil {
		// 提交失败时草稿原样保留，申请人可以直接重试
		if saveErr := h.saveDraft(r.Context(), draftID, wiz); saveErr != nil {
			h.internalServerError(w, r, saveErr)
			return
		}
		h.errorResponse(w, r, err.Error())
		return
	}

	// 提交成功后草稿就没用了
	if err := h.redisClient.Del(ctx, fmt.Sprintf("draft_%s", draftID)).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.publishApplicationReceivedMail(wiz); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交申请成功", h.draftViewOf(draftID, wiz))
}

func (h *Handler) publishApplicationReceivedMail(wiz *wizard.Wizard) error {
	var firstName, lastName string
	for _, fs := range wiz.FieldStatuses() {
		switch fs.Field {
		case wizard.FieldFirstName:
			firstName = fs.Status.Value
		case wizard.FieldLastName:
			lastName = fs.Status.Value
		}
	}

	mailMessage := domain.MailMessage{
		Type: "application_received",
		To:   wiz.SubmittedEmail(),
		Data: domain.ApplicationReceivedMailData{
			FirstName: firstName,
			LastName:  lastName,
			Email:     wiz.SubmittedEmail(),
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
