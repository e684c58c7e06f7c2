package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

type fakeBlobStore struct {
	uploads []string
	err     error
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeApplicantStore struct {
	nextID     int64
	applicants map[int64]*domain.Applicant

	lookupErr error
	writeErr  error
}

func newFakeApplicantStore() *fakeApplicantStore {
	return &fakeApplicantStore{nextID: 1, applicants: make(map[int64]*domain.Applicant)}
}

func (f *fakeApplicantStore) GetApplicantIDByEmail(email string) (int64, bool, error) {
	if f.lookupErr != nil {
		return 0, false, f.lookupErr
	}
	for id, applicant := range f.applicants {
		if applicant.Email == email {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeApplicantStore) InsertApplicant(applicant *domain.Applicant) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	copied := *applicant
	f.applicants[f.nextID] = &copied
	f.nextID++
	return nil
}

func (f *fakeApplicantStore) UpdateApplicantByID(id int64, applicant *domain.Applicant) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if _, exists := f.applicants[id]; !exists {
		return fmt.Errorf("申请记录 %d 不存在", id)
	}
	copied := *applicant
	f.applicants[id] = &copied
	return nil
}

// readyWizard 构造一个已经走到第三步并选好时间段的向导
func readyWizard(t *testing.T) *Wizard {
	t.Helper()

	w := New(testConfig(), testSlots())
	fillStep1(t, w)

	advanced, err := w.Next()
	require.NoError(t, err)
	require.True(t, advanced)

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

	require.NoError(t, w.TogglePeriodContaining("a"))
	return w
}

func TestSubmitInsertsApplicant(t *testing.T) {
	w := readyWizard(t)
	blob := &fakeBlobStore{}
	store := newFakeApplicantStore()

	require.NoError(t, w.Submit(context.Background(), Collaborators{Blob: blob, Applicants: store}))
	require.Equal(t, StatusSubmitted, w.Status())
	require.Equal(t, "zhangsan@example.edu", w.SubmittedEmail())

	require.Len(t, store.applicants, 1)
	applicant := store.applicants[1]
	require.Equal(t, "三", applicant.FirstName)
	require.Equal(t, int32(2027), applicant.GraduationYear)
	require.Equal(t, domain.StatusApplied, applicant.Status)
	require.ElementsMatch(t, []string{"a", "b"}, applicant.SelectedSlots)
	require.Nil(t, applicant.AssignedSlotID)
	require.Empty(t, applicant.Notes)

	// 问答内容按题目顺序组装，且冗余了题目文本
	require.Len(t, applicant.FRQResponses, 2)
	require.Equal(t, "q1", applicant.FRQResponses[0].QuestionID)
	require.Equal(t, "Why do you want to join?", applicant.FRQResponses[0].QuestionText)
	require.Equal(t, "Led a robotics team.", applicant.FRQResponses[1].Answer)

	require.Len(t, blob.uploads, 1)
	require.Contains(t, applicant.ResumeURL, "https://cdn.example.com/")
}

func TestSubmitIsIdempotentPerEmail(t *testing.T) {
	blob := &fakeBlobStore{}
	store := newFakeApplicantStore()

	w1 := readyWizard(t)
	require.NoError(t, w1.Submit(context.Background(), Collaborators{Blob: blob, Applicants: store}))

	// 第二次用同一邮箱（大小写和首尾空白不同）提交
	w2 := readyWizard(t)
	require.NoError(t, w2.SetField(FieldEmail, "  ZhangSan@Example.edu "))
	require.NoError(t, w2.SetField(FieldMajor, "Mathematics"))
	require.NoError(t, w2.Submit(context.Background(), Collaborators{Blob: blob, Applicants: store}))

	// 只有一条记录，内容是第二次提交的
	require.Len(t, store.applicants, 1)
	require.Equal(t, "Mathematics", store.applicants[1].Major)
	require.Equal(t, "zhangsan@example.edu", store.applicants[1].Email)
}

func TestSubmitRequiresSelection(t *testing.T) {
	w := readyWizard(t)
	require.NoError(t, w.TogglePeriodContaining("a")) // 取消选择

	err := w.Submit(context.Background(), Collaborators{Blob: &fakeBlobStore{}, Applicants: newFakeApplicantStore()})
	require.Error(t, err)
	require.Equal(t, 3, w.Step())
	require.Contains(t, w.Errors(), "availability")
}

func TestSubmitStorageNotConfigured(t *testing.T) {
	w := readyWizard(t)
	store := newFakeApplicantStore()

	err := w.Submit(context.Background(), Collaborators{Blob: nil, Applicants: store})
	require.ErrorIs(t, err, ErrStorageNotConfigured)
	require.Equal(t, StatusSubmitError, w.Status())

	// 没有写入任何不完整的记录
	require.Empty(t, store.applicants)
}

func TestSubmitUploadFailurePreservesDraft(t *testing.T) {
	w := readyWizard(t)
	blob := &fakeBlobStore{err: errors.New("network down")}
	store := newFakeApplicantStore()

	err := w.Submit(context.Background(), Collaborators{Blob: blob, Applicants: store})
	require.ErrorIs(t, err, ErrUploadFailed)
	require.Equal(t, StatusSubmitError, w.Status())
	require.NotEmpty(t, w.SubmitErrorMessage())
	require.Empty(t, store.applicants)

	// 草稿保持不变，可以直接重试
	require.Equal(t, 3, w.Step())
	require.NotNil(t, w.Resume())
	require.Equal(t, []string{"a", "b"}, w.SelectedSlotIDs())

	blob.err = nil
	require.NoError(t, w.Submit(context.Background(), Collaborators{Blob: blob, Applicants: store}))
	require.Equal(t, StatusSubmitted, w.Status())
	require.Len(t, store.applicants, 1)
}

func TestSubmitLookupFailure(t *testing.T) {
	w := readyWizard(t)
	store := newFakeApplicantStore()
	store.lookupErr = errors.New("connection refused")

	err := w.Submit(context.Background(), Collaborators{Blob: &fakeBlobStore{}, Applicants: store})
	require.ErrorIs(t, err, ErrLookupFailed)
}

func TestSubmitWriteFailure(t *testing.T) {
	w := readyWizard(t)
	store := newFakeApplicantStore()
	store.writeErr = errors.New("constraint violation")

	err := w.Submit(context.Background(), Collaborators{Blob: &fakeBlobStore{}, Applicants: store})
	require.ErrorIs(t, err, ErrWriteFailed)
	require.Equal(t, StatusSubmitError, w.Status())
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := readyWizard(t)

	restored := FromSnapshot(w.Snapshot())
	require.Equal(t, w.Status(), restored.Status())
	require.Equal(t, w.Step(), restored.Step())
	require.Equal(t, w.SelectedSlotIDs(), restored.SelectedSlotIDs())
	require.Equal(t, w.Answer("q1"), restored.Answer("q1"))
	require.NotNil(t, restored.Resume())

	// 恢复后的向导可以直接完成提交
	store := newFakeApplicantStore()
	require.NoError(t, restored.Submit(context.Background(), Collaborators{Blob: &fakeBlobStore{}, Applicants: store}))
	require.Len(t, store.applicants, 1)
}
