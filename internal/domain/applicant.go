package domain

import "time"

type ApplicantStatus string

const (
	StatusApplied      ApplicantStatus = "applied"
	StatusInterviewing ApplicantStatus = "interviewing"
	StatusOffered      ApplicantStatus = "offered"
	StatusRejected     ApplicantStatus = "rejected"
)

// FRQResponse 把题目文本一并冗余进提交记录中
// 这样之后修改题目不会影响历史提交
type FRQResponse struct {
	QuestionID   string `json:"questionID"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

type ApplicantNote struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Applicant struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Major          string          `json:"major"`
	GraduationYear int32           `json:"graduationYear"`
	ResumeURL      string          `json:"resumeURL"`
	FRQResponses   []FRQResponse   `json:"frqResponses"`
	SelectedSlots  []string        `json:"selectedSlots"`
	Status         ApplicantStatus `json:"status"`
	Notes          []ApplicantNote `json:"notes"`
	AssignedSlotID *string         `json:"assignedSlotID"` // 为 nil 时表示还未给申请人分配面试时间
	AppliedAt      time.Time       `json:"appliedAt"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	Version        int32           `json:"-"`
}
