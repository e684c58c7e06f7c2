package interview

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func testParameters() *Parameters {
	return &Parameters{
		PopulationSize:    20,
		MaxGenerations:    30,
		CrossoverRate:     0.8,
		MutationRate:      0.05,
		EliteCount:        2,
		LoadBalanceWeight: 0.5,
	}
}

func TestAssignRespectsSelections(t *testing.T) {
	slots := []*domain.TimeSlot{
		{ID: "a", MaxCapacity: 5, IsActive: true},
		{ID: "b", MaxCapacity: 5, IsActive: true},
	}
	// 每个申请人只勾选了一个时间段，分配结果应该被完全确定
	applicants := []*domain.Applicant{
		{ID: 1, SelectedSlots: []string{"a"}},
		{ID: 2, SelectedSlots: []string{"b"}},
	}

	assigner, err := New(testParameters(), applicants, slots, nil)
	require.NoError(t, err)

	result, err := assigner.Assign()
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "a", 2: "b"}, result)
}

func TestAssignCoversAllApplicants(t *testing.T) {
	slots := []*domain.TimeSlot{
		{ID: "a", MaxCapacity: 4, IsActive: true},
		{ID: "b", MaxCapacity: 4, IsActive: true},
	}
	applicants := []*domain.Applicant{
		{ID: 1, SelectedSlots: []string{"a", "b"}},
		{ID: 2, SelectedSlots: []string{"a", "b"}},
		{ID: 3, SelectedSlots: []string{"a", "b"}},
		{ID: 4, SelectedSlots: []string{"a", "b"}},
	}

	assigner, err := New(testParameters(), applicants, slots, nil)
	require.NoError(t, err)

	result, err := assigner.Assign()
	require.NoError(t, err)
	require.Len(t, result, 4)
}

func TestAssignIgnoresInactiveSlots(t *testing.T) {
	slots := []*domain.TimeSlot{
		{ID: "a", MaxCapacity: 5, IsActive: true},
		{ID: "b", MaxCapacity: 5, IsActive: false},
	}
	// 申请人勾选的时间段在勾选之后被停用了
	applicants := []*domain.Applicant{
		{ID: 1, SelectedSlots: []string{"a", "b"}},
	}

	assigner, err := New(testParameters(), applicants, slots, nil)
	require.NoError(t, err)

	result, err := assigner.Assign()
	require.NoError(t, err)
	require.Equal(t, map[int64]string{1: "a"}, result)
}

func TestAssignRespectsExistingOccupancy(t *testing.T) {
	slots := []*domain.TimeSlot{
		{ID: "x", MaxCapacity: 3, IsActive: true},
	}
	// 时间段 x 已经有两个人被手动分配，剩余容量只有 1
	occupied := map[string]int32{"x": 2}
	applicants := []*domain.Applicant{
		{ID: 1, SelectedSlots: []string{"x"}},
		{ID: 2, SelectedSlots: []string{"x"}},
		{ID: 3, SelectedSlots: []string{"x"}},
	}

	assigner, err := New(testParameters(), applicants, slots, occupied)
	require.NoError(t, err)

	result, err := assigner.Assign()
	require.NoError(t, err)
	require.Len(t, result, 1)
	for _, slotID := range result {
		require.Equal(t, "x", slotID)
	}
}

func TestNewRejectsFullyOccupiedSlots(t *testing.T) {
	// 唯一的时间段已经被手动分配满了
	slots := []*domain.TimeSlot{{ID: "x", MaxCapacity: 2, IsActive: true}}
	occupied := map[string]int32{"x": 2}
	_, err := New(testParameters(), []*domain.Applicant{{ID: 1, SelectedSlots: []string{"x"}}}, slots, occupied)
	require.Error(t, err)
}

func TestNewRejectsEmptyInput(t *testing.T) {
	// 没有可用时间段
	_, err := New(testParameters(), []*domain.Applicant{{ID: 1, SelectedSlots: []string{"a"}}}, nil, nil)
	require.Error(t, err)

	// 没有可以参与分配的申请人
	slots := []*domain.TimeSlot{{ID: "a", MaxCapacity: 5, IsActive: true}}
	_, err = New(testParameters(), []*domain.Applicant{{ID: 1, SelectedSlots: []string{"x"}}}, slots, nil)
	require.Error(t, err)
}
