package wizard

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

// 提交失败时用这些哨兵错误区分失败发生在哪个环节
var (
	ErrStorageNotConfigured = errors.New("存储服务未配置")
	ErrUploadFailed         = errors.New("简历上传失败")
	ErrLookupFailed         = errors.New("查询历史申请记录失败")
	ErrWriteFailed          = errors.New("保存申请记录失败")
)

// BlobStore 是简历文件的外部存储
// Upload 成功后返回一个可以长期公开访问的 URL
type BlobStore interface {
	Upload(ctx context.Context, key string, content []byte) (string, error)
}

// ApplicantStore 是申请记录的外部持久化
// 查不到记录不算错误，通过第二个返回值区分
type ApplicantStore interface {
	GetApplicantIDByEmail(email string) (int64, bool, error)
	InsertApplicant(applicant *domain.Applicant) error
	UpdateApplicantByID(id int64, applicant *domain.Applicant) error
}

// Collaborators 是提交时依赖的外部协作方
// Blob 为 nil 表示存储服务没有配置，此时带简历的提交会失败
type Collaborators struct {
	Blob       BlobStore
	Applicants ApplicantStore
}

// Submit 执行完整的提交流程：
// 上传简历、组装问答内容、按邮箱查重、整体写入（插入或原地覆盖）
// 任何一步失败整个提交失败，草稿原样保留，不会写入不完整的记录
func (w *Wizard) Submit(ctx context.Context, deps Collaborators) error {
	if w.status == StatusSubmitting {
		return fmt.Errorf("上一次提交还未结束")
	}
	if !w.interactive() {
		return fmt.Errorf("当前状态 %s 不允许提交", w.status)
	}
	if w.step != 3 {
		return fmt.Errorf("还未到提交步骤")
	}

	if !w.validateStep3() {
		return fmt.Errorf("%s", w.errors["availability"])
	}

	w.status = StatusSubmitting

	if err := w.doSubmit(ctx, deps); err != nil {
		// 提交失败回到第三步，草稿保持不变，由用户自行重试
		w.status = StatusSubmitError
		w.submitError = err.Error()
		return err
	}

	w.status = StatusSubmitted
	w.submittedEmail = w.normalizedEmail()
	return nil
}

func (w *Wizard) doSubmit(ctx context.Context, deps Collaborators) error {
	firstName := strings.TrimSpace(w.fieldValue(FieldFirstName))
	lastName := strings.TrimSpace(w.fieldValue(FieldLastName))
	email := w.normalizedEmail()

	// 上传简历并拿到公开访问的 URL
	resumeURL := ""
	if w.resume != nil {
		if deps.Blob == nil {
			return ErrStorageNotConfigured
		}

		key := fmt.Sprintf("%d-%s-%s%s", time.Now().UnixMilli(), firstName, lastName, path.Ext(w.resume.Filename))
		url, err := deps.Blob.Upload(ctx, key, w.resume.Content)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		resumeURL = url
	}

	// 按配置中的题目顺序组装问答内容，把题目文本一并写入
	frqResponses := make([]domain.FRQResponse, 0, len(w.cfg.FRQQuestions))
	for _, question := range w.cfg.FRQQuestions {
		frqResponses = append(frqResponses, domain.FRQResponse{
			QuestionID:   question.ID,
			QuestionText: question.Question,
			Answer:       w.answers[question.ID],
		})
	}

	// 检查是否已经有同邮箱的申请记录
	existingID, exists, err := deps.Applicants.GetApplicantIDByEmail(email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	// 毕业年份在第一步已经校验过一定在固定集合中
	graduationYear, err := strconv.Atoi(w.fieldValue(FieldGraduationYear))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	now := time.Now()
	applicant := &domain.Applicant{
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Phone:          strings.TrimSpace(w.fieldValue(FieldPhone)),
		Major:          strings.TrimSpace(w.fieldValue(FieldMajor)),
		GraduationYear: int32(graduationYear),
		ResumeURL:      resumeURL,
		FRQResponses:   frqResponses,
		SelectedSlots:  w.SelectedSlotIDs(),
		Status:         domain.StatusApplied,
		Notes:          []domain.ApplicantNote{},
		AssignedSlotID: nil,
		AppliedAt:      now,
		LastUpdatedAt:  now,
	}

	// 同邮箱重复提交时整体覆盖旧记录，保证一个申请人只有一条记录
	if exists {
		if err := deps.Applicants.UpdateApplicantByID(existingID, applicant); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
	} else {
		if err := deps.Applicants.InsertApplicant(applicant); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
	}

	return nil
}

func (w *Wizard) normalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(w.fieldValue(FieldEmail)))
}
