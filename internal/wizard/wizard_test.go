package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func testConfig() domain.RecruitmentConfig {
	return domain.RecruitmentConfig{
		ID:               1,
		ApplicationsOpen: true,
		FRQQuestions: []domain.FRQQuestion{
			{ID: "q1", Question: "Why do you want to join?", MaxWords: 150},
			{ID: "q2", Question: "Describe a project you led.", MaxWords: 5},
		},
	}
}

func testSlots() []domain.TimeSlot {
	return []domain.TimeSlot{
		{ID: "a", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", Room: "101", DisplayLabel: "9:00 - 10:00 AM (Room 101)", MaxCapacity: 4, IsActive: true},
		{ID: "b", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", Room: "102", DisplayLabel: "9:00 - 10:00 AM (Room 102)", MaxCapacity: 4, IsActive: true},
		{ID: "c", DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "10:00", Room: "101", DisplayLabel: "9:00 - 10:00 AM (Room 101)", MaxCapacity: 4, IsActive: true},
	}
}

func fillStep1(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SetField(FieldFirstName, "三"))
	require.NoError(t, w.SetField(FieldLastName, "张"))
	require.NoError(t, w.SetField(FieldEmail, "zhangsan@example.edu"))
	require.NoError(t, w.SetField(FieldPhone, "13800000000"))
	require.NoError(t, w.SetField(FieldMajor, "Computer Science"))
	require.NoError(t, w.SetField(FieldGraduationYear, "2027"))
}

func TestCountWords(t *testing.T) {
	require.Equal(t, 0, CountWords(""))
	require.Equal(t, 0, CountWords("   \t\n"))
	require.Equal(t, 3, CountWords("a  b   c"))
	require.Equal(t, 2, CountWords("  hello\nworld  "))
}

func TestValidateEmail(t *testing.T) {
	require.True(t, ValidateEmail("a@b.co"))
	require.False(t, ValidateEmail("a@b"))
	require.False(t, ValidateEmail("a.com"))
	require.False(t, ValidateEmail(""))
	require.False(t, ValidateEmail("a b@c.d"))
}

func TestClosedRecruitment(t *testing.T) {
	cfg := testConfig()
	cfg.ApplicationsOpen = false

	w := New(cfg, testSlots())
	require.Equal(t, StatusClosed, w.Status())

	err := w.SetField(FieldFirstName, "x")
	require.Error(t, err)
}

func TestStep1ValidationBlocksAdvance(t *testing.T) {
	w := New(testConfig(), testSlots())
	fillStep1(t, w)
	require.NoError(t, w.SetField(FieldEmail, "a@b"))

	advanced, err := w.Next()
	require.NoError(t, err)
	require.False(t, advanced)
	require.Equal(t, 1, w.Step())

	// 只有 email 一项有错误，其余字段不受影响
	require.NotEmpty(t, w.FieldError(FieldEmail))
	require.Empty(t, w.FieldError(FieldFirstName))
	require.Empty(t, w.FieldError(FieldLastName))
	require.Empty(t, w.FieldError(FieldPhone))
	require.Empty(t, w.FieldError(FieldMajor))
	require.Empty(t, w.FieldError(FieldGraduationYear))
}

func TestFieldErrorShownOnlyWhenTouched(t *testing.T) {
	w := New(testConfig(), testSlots())

	// 还没 touch 过的字段即使校验失败也不展示错误
	require.Empty(t, w.FieldError(FieldEmail))

	// 尝试进入下一步会 touch 本步骤的全部字段
	advanced, err := w.Next()
	require.NoError(t, err)
	require.False(t, advanced)
	require.NotEmpty(t, w.FieldError(FieldEmail))

	// 编辑字段只清除这个字段的错误，不会立即重新校验
	require.NoError(t, w.SetField(FieldEmail, "still-not-an-email"))
	require.Empty(t, w.FieldError(FieldEmail))
	require.NotEmpty(t, w.FieldError(FieldFirstName))
}

func TestGraduationYearMustBeInFixedSet(t *testing.T) {
	w := New(testConfig(), testSlots())
	fillStep1(t, w)
	require.NoError(t, w.SetField(FieldGraduationYear, "1999"))

	advanced, err := w.Next()
	require.NoError(t, err)
	require.False(t, advanced)
	require.NotEmpty(t, w.FieldError(FieldGraduationYear))
}

func TestWordCapRejectsEdit(t *testing.T) {
	w := New(testConfig(), testSlots())

	ok, err := w.SetAnswer("q2", "one two three four five")
	require.NoError(t, err)
	require.True(t, ok)

	// 超出上限的编辑被整体拒绝，已保存的答案保持不变
	ok, err = w.SetAnswer("q2", "one two three four five six")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "one two three four five", w.Answer("q2"))

	_, err = w.SetAnswer("nope", "x")
	require.Error(t, err)
}

func TestResumeValidation(t *testing.T) {
	w := New(testConfig(), testSlots())

	// 6 MiB 的 PDF 因大小被拒绝
	require.NoError(t, w.AttachResume("resume.pdf", MediaTypePDF, 6*1024*1024, nil))
	require.Nil(t, w.Resume())
	require.NotEmpty(t, w.FileError())

	// 1 MiB 的 png 因类型被拒绝
	require.NoError(t, w.AttachResume("photo.png", "image/png", 1024*1024, nil))
	require.Nil(t, w.Resume())
	require.NotEmpty(t, w.FileError())

	// 4 MiB 的 DOCX 被接受，且清除文件错误
	require.NoError(t, w.AttachResume("resume.docx", MediaTypeDOCX, 4*1024*1024, []byte("doc")))
	require.NotNil(t, w.Resume())
	require.Empty(t, w.FileError())
}

func TestStep2Validation(t *testing.T) {
	w := New(testConfig(), testSlots())
	fillStep1(t, w)

	advanced, err := w.Next()
	require.NoError(t, err)
	require.True(t, advanced)
	require.Equal(t, 2, w.Step())

	// 没有答题也没有简历时不能进入第三步
	advanced, err = w.Next()
	require.NoError(t, err)
	require.False(t, advanced)
	errs := w.Errors()
	require.Contains(t, errs, "frq_q1")
	require.Contains(t, errs, "frq_q2")
	require.Contains(t, errs, "resume")

	ok, err := w.SetAnswer("q1", "Because I like consulting.")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = w.SetAnswer("q2", "Led a robotics team.")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, w.AttachResume("resume.pdf", MediaTypePDF, 1024, []byte("pdf")))

	advanced, err = w.Next()
	require.NoError(t, err)
	require.True(t, advanced)
	require.Equal(t, 3, w.Step())
}

func TestBackNeverValidates(t *testing.T) {
	w := New(testConfig(), testSlots())
	fillStep1(t, w)

	advanced, err := w.Next()
	require.NoError(t, err)
	require.True(t, advanced)

	// 把邮箱改成非法值后仍然可以返回上一步
	require.NoError(t, w.SetField(FieldEmail, "broken"))
	require.NoError(t, w.Back())
	require.Equal(t, 1, w.Step())

	// 第一步时 Back 不报错也不移动
	require.NoError(t, w.Back())
	require.Equal(t, 1, w.Step())
}
