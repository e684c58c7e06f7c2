package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

type Status string

const (
	StatusClosed      Status = "closed"
	StatusInProgress  Status = "in_progress"
	StatusSubmitting  Status = "submitting"
	StatusSubmitted   Status = "submitted"
	StatusSubmitError Status = "submit_error"
)

type Field string

const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldMajor          Field = "major"
	FieldGraduationYear Field = "graduationYear"
)

// fieldOrder 决定了字段在视图中的展示顺序
var fieldOrder = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldMajor,
	FieldGraduationYear,
}

// GraduationYears 是毕业年份的固定可选集合
var GraduationYears = []string{"2025", "2026", "2027", "2028", "2029"}

const (
	MaxResumeSize = 5 * 1024 * 1024 // 5 MiB

	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldStatus 把字段的值、是否失焦过、校验错误放在一起维护
// 避免 errors 和 touched 两个 map 不同步的问题
type FieldStatus struct {
	Value   string `json:"value"`
	Touched bool   `json:"touched"`
	Error   string `json:"error"`
}

type Resume struct {
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	Content   []byte `json:"content"`
}

// Wizard 是申请向导的状态机，管理一次访问内的申请草稿
// 它不持有任何外部资源，提交时所需的协作方通过 Submit 传入
type Wizard struct {
	cfg   domain.RecruitmentConfig
	slots []domain.TimeSlot

	status Status
	step   int

	fields  map[Field]*FieldStatus
	answers map[string]string
	resume  *Resume

	// frq_<id>、resume、availability 这些非身份字段的校验错误
	errors map[string]string

	// 文件被拒绝时的错误，和 resume 必填的校验错误是两回事
	fileError string

	selected map[string]bool

	submitError    string
	submittedEmail string
}

// New 根据招新配置快照和当前生效的面试时间段构造向导
// 配置在向导的生命周期内不再变化
func New(cfg domain.RecruitmentConfig, slots []domain.TimeSlot) *Wizard {
	w := &Wizard{
		cfg:      cfg,
		slots:    make([]domain.TimeSlot, 0, len(slots)),
		status:   StatusInProgress,
		step:     1,
		fields:   make(map[Field]*FieldStatus),
		answers:  make(map[string]string),
		errors:   make(map[string]string),
		selected: make(map[string]bool),
	}

	// 向导只应该看到 is_active 的时间段
	for _, slot := range slots {
		if slot.IsActive {
			w.slots = append(w.slots, slot)
		}
	}

	for _, f := range fieldOrder {
		w.fields[f] = &FieldStatus{}
	}

	if !cfg.ApplicationsOpen {
		w.status = StatusClosed
	}

	return w
}

func (w *Wizard) Status() Status { return w.status }
func (w *Wizard) Step() int      { return w.step }

// SubmittedEmail 在提交成功后返回提交时使用的邮箱，用于展示
func (w *Wizard) SubmittedEmail() string { return w.submittedEmail }

// SubmitErrorMessage 返回上一次提交失败的提示信息
func (w *Wizard) SubmitErrorMessage() string { return w.submitError }

func (w *Wizard) Questions() []domain.FRQQuestion { return w.cfg.FRQQuestions }

func (w *Wizard) interactive() bool {
	return w.status == StatusInProgress || w.status == StatusSubmitError
}

// SetField 更新一个身份字段的值
// 只清除这个字段已有的错误，不会立即重新校验，完整校验发生在尝试进入下一步时
func (w *Wizard) SetField(field Field, value string) error {
	if !w.interactive() {
		return fmt.Errorf("当前状态 %s 不允许编辑", w.status)
	}

	fs, exists := w.fields[field]
	if !exists {
		return fmt.Errorf("未知字段 %s", field)
	}

	fs.Value = value
	fs.Error = ""

	return nil
}

// Blur 记录字段已经失焦过，之后的校验错误才会展示给用户
func (w *Wizard) Blur(field Field) error {
	fs, exists := w.fields[field]
	if !exists {
		return fmt.Errorf("未知字段 %s", field)
	}

	fs.Touched = true
	return nil
}

// FieldStatuses 按固定顺序返回所有身份字段的状态
func (w *Wizard) FieldStatuses() []struct {
	Field  Field
	Status FieldStatus
} {
	out := make([]struct {
		Field  Field
		Status FieldStatus
	}, 0, len(fieldOrder))
	for _, f := range fieldOrder {
		out = append(out, struct {
			Field  Field
			Status FieldStatus
		}{Field: f, Status: *w.fields[f]})
	}
	return out
}

// FieldError 只在字段校验失败且被 touch 过时返回错误信息
func (w *Wizard) FieldError(field Field) string {
	fs, exists := w.fields[field]
	if !exists {
		return ""
	}
	if fs.Error != "" && fs.Touched {
		return fs.Error
	}
	return ""
}

func (w *Wizard) fieldValue(field Field) string {
	return w.fields[field].Value
}

// Errors 返回非身份字段（问答、简历、时间段选择）的校验错误
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errors))
	for k, v := range w.errors {
		out[k] = v
	}
	return out
}

func (w *Wizard) FileError() string { return w.fileError }

// CountWords 统计答案的单词数：先去掉首尾空白，再按空白切分并丢弃空串
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ValidateEmail 检查邮箱是否符合 local@domain.tld 的基本形状
func ValidateEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// Answer 返回某道题当前保存的答案
func (w *Wizard) Answer(questionID string) string {
	return w.answers[questionID]
}

// SetAnswer 更新一道开放问题的答案
// 如果新值的单词数超出这道题的上限，这次编辑会被整体拒绝，已保存的答案不变
func (w *Wizard) SetAnswer(questionID string, value string) (bool, error) {
	if !w.interactive() {
		return false, fmt.Errorf("当前状态 %s 不允许编辑", w.status)
	}

	var question *domain.FRQQuestion
	for i := range w.cfg.FRQQuestions {
		if w.cfg.FRQQuestions[i].ID == questionID {
			question = &w.cfg.FRQQuestions[i]
			break
		}
	}
	if question == nil {
		return false, fmt.Errorf("未知问题 %s", questionID)
	}

	if CountWords(value) > int(question.MaxWords) {
		// 硬性上限：超出上限的输入直接拒绝，而不是事后提示
		return false, nil
	}

	w.answers[questionID] = value
	delete(w.errors, "frq_"+questionID)

	return true, nil
}

// AttachResume 校验并保存简历附件
// 类型或大小不符时不会写入草稿，并记录文件错误
func (w *Wizard) AttachResume(filename string, mediaType string, size int64, content []byte) error {
	if !w.interactive() {
		return fmt.Errorf("当前状态 %s 不允许编辑", w.status)
	}

	w.fileError = ""

	if mediaType != MediaTypePDF && mediaType != MediaTypeDOCX {
		w.resume = nil
		w.fileError = "只支持 PDF 和 DOCX 格式的简历"
		return nil
	}

	if size > MaxResumeSize {
		w.resume = nil
		w.fileError = "简历文件大小不能超过 5MB"
		return nil
	}

	w.resume = &Resume{
		Filename:  filename,
		MediaType: mediaType,
		Size:      size,
		Content:   content,
	}
	delete(w.errors, "resume")

	return nil
}

func (w *Wizard) Resume() *Resume { return w.resume }

// Next 尝试进入下一步，校验失败时停留在当前步骤并记录各字段的错误
// 返回是否成功进入下一步
func (w *Wizard) Next() (bool, error) {
	if !w.interactive() {
		return false, fmt.Errorf("当前状态 %s 不允许操作", w.status)
	}

	switch w.step {
	case 1:
		ok := w.validateStep1()
		// 尝试进入下一步视为 touch 了本步骤的所有字段
		for _, f := range fieldOrder {
			w.fields[f].Touched = true
		}
		if !ok {
			return false, nil
		}
		w.step = 2
	case 2:
		if !w.validateStep2() {
			return false, nil
		}
		w.step = 3
	case 3:
		return false, fmt.Errorf("已经是最后一步")
	}

	return true, nil
}

// Back 返回上一步，永远允许且不触发校验
func (w *Wizard) Back() error {
	if !w.interactive() {
		return fmt.Errorf("当前状态 %s 不允许操作", w.status)
	}
	if w.step > 1 {
		w.step--
	}
	return nil
}

func (w *Wizard) validateStep1() bool {
	ok := true

	check := func(field Field, message string, valid func(value string) bool) {
		fs := w.fields[field]
		if valid(fs.Value) {
			fs.Error = ""
			return
		}
		fs.Error = message
		ok = false
	}

	notEmpty := func(value string) bool { return strings.TrimSpace(value) != "" }

	check(FieldFirstName, "请填写名字", notEmpty)
	check(FieldLastName, "请填写姓氏", notEmpty)
	check(FieldEmail, "请填写有效的邮箱地址", func(value string) bool {
		return notEmpty(value) && ValidateEmail(value)
	})
	check(FieldPhone, "请填写电话号码", notEmpty)
	check(FieldMajor, "请填写专业", notEmpty)
	check(FieldGraduationYear, "请选择毕业年份", func(value string) bool {
		for _, year := range GraduationYears {
			if value == year {
				return true
			}
		}
		return false
	})

	return ok
}

func (w *Wizard) validateStep2() bool {
	ok := true

	for _, question := range w.cfg.FRQQuestions {
		key := "frq_" + question.ID
		if strings.TrimSpace(w.answers[question.ID]) == "" {
			w.errors[key] = "这道题是必答的"
			ok = false
		} else {
			delete(w.errors, key)
		}
	}

	if w.resume == nil {
		w.errors["resume"] = "请上传简历"
		ok = false
	} else {
		delete(w.errors, "resume")
	}

	return ok
}

func (w *Wizard) validateStep3() bool {
	if len(w.selected) < 1 {
		w.errors["availability"] = "请至少选择一个可用的面试时间段"
		return false
	}
	delete(w.errors, "availability")
	return true
}
