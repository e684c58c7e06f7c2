package wizard

import (
	"encoding/json"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

// Snapshot 是向导的完整可序列化状态
// 草稿在两次请求之间以 JSON 的形式保存在 redis 中
// 招新配置和时间段列表也在快照里，保证整个草稿生命周期内用的是同一份配置
type Snapshot struct {
	Config domain.RecruitmentConfig `json:"config"`
	Slots  []domain.TimeSlot        `json:"slots"`

	Status Status `json:"status"`
	Step   int    `json:"step"`

	Fields   map[Field]*FieldStatus `json:"fields"`
	Answers  map[string]string      `json:"answers"`
	Resume   *Resume                `json:"resume"`
	Errors   map[string]string      `json:"errors"`
	Selected []string               `json:"selected"`

	FileError      string `json:"fileError"`
	SubmitError    string `json:"submitError"`
	SubmittedEmail string `json:"submittedEmail"`
}

func (w *Wizard) Snapshot() *Snapshot {
	fields := make(map[Field]*FieldStatus, len(w.fields))
	for f, fs := range w.fields {
		copied := *fs
		fields[f] = &copied
	}

	answers := make(map[string]string, len(w.answers))
	for id, answer := range w.answers {
		answers[id] = answer
	}

	errs := make(map[string]string, len(w.errors))
	for key, message := range w.errors {
		errs[key] = message
	}

	return &Snapshot{
		Config:         w.cfg,
		Slots:          w.slots,
		Status:         w.status,
		Step:           w.step,
		Fields:         fields,
		Answers:        answers,
		Resume:         w.resume,
		Errors:         errs,
		Selected:       w.SelectedSlotIDs(),
		FileError:      w.fileError,
		SubmitError:    w.submitError,
		SubmittedEmail: w.submittedEmail,
	}
}

// FromSnapshot 从快照恢复向导
// 快照里缺失的字段会补上空状态，避免旧草稿反序列化后出现 nil map
func FromSnapshot(s *Snapshot) *Wizard {
	w := &Wizard{
		cfg:            s.Config,
		slots:          s.Slots,
		status:         s.Status,
		step:           s.Step,
		fields:         make(map[Field]*FieldStatus),
		answers:        make(map[string]string),
		errors:         make(map[string]string),
		resume:         s.Resume,
		selected:       make(map[string]bool),
		fileError:      s.FileError,
		submitError:    s.SubmitError,
		submittedEmail: s.SubmittedEmail,
	}

	for _, f := range fieldOrder {
		if fs, exists := s.Fields[f]; exists && fs != nil {
			copied := *fs
			w.fields[f] = &copied
		} else {
			w.fields[f] = &FieldStatus{}
		}
	}

	for id, answer := range s.Answers {
		w.answers[id] = answer
	}
	for key, message := range s.Errors {
		w.errors[key] = message
	}
	for _, id := range s.Selected {
		w.selected[id] = true
	}

	return w
}

func (w *Wizard) ToJSON() ([]byte, error) {
	return json.Marshal(w.Snapshot())
}

func FromJSON(data []byte) (*Wizard, error) {
	s := &Snapshot{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return FromSnapshot(s), nil
}
