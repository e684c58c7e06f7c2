package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

func TestGroupPeriods(t *testing.T) {
	days := GroupPeriods(testSlots())

	// 周一在周二之前，各出现一次
	require.Len(t, days, 2)
	require.Equal(t, "Monday", days[0].Day)
	require.Equal(t, "Tuesday", days[1].Day)

	// 周一 09:00 的两个房间合并成一个 Period
	require.Len(t, days[0].Periods, 1)
	monday := days[0].Periods[0]
	require.ElementsMatch(t, []string{"a", "b"}, monday.SlotIDs)
	require.Equal(t, "9:00 - 10:00 AM", monday.DisplayLabel)

	require.Len(t, days[1].Periods, 1)
	require.Equal(t, []string{"c"}, days[1].Periods[0].SlotIDs)
}

func TestGroupPeriodsOrdering(t *testing.T) {
	slots := []domain.TimeSlot{
		{ID: "x", DayOfWeek: "Friday", StartTime: "14:00", EndTime: "15:00", DisplayLabel: "2:00 - 3:00 PM", IsActive: true},
		{ID: "y", DayOfWeek: "Friday", StartTime: "09:00", EndTime: "10:00", DisplayLabel: "9:00 - 10:00 AM", IsActive: true},
		{ID: "z", DayOfWeek: "Wednesday", StartTime: "10:00", EndTime: "11:00", DisplayLabel: "10:00 - 11:00 AM", IsActive: true},
	}

	days := GroupPeriods(slots)
	require.Len(t, days, 2)
	require.Equal(t, "Wednesday", days[0].Day)
	require.Equal(t, "Friday", days[1].Day)

	// 同一天内按开始时间排序
	require.Equal(t, "09:00", days[1].Periods[0].StartTime)
	require.Equal(t, "14:00", days[1].Periods[1].StartTime)
}

func TestGroupPeriodsKeepsLabelWithoutRoomSuffix(t *testing.T) {
	slots := []domain.TimeSlot{
		{ID: "x", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", DisplayLabel: "9:00 - 10:00 AM", IsActive: true},
	}

	days := GroupPeriods(slots)
	require.Equal(t, "9:00 - 10:00 AM", days[0].Periods[0].DisplayLabel)
}

func TestToggleIsPeriodAtomic(t *testing.T) {
	w := New(testConfig(), testSlots())

	// 通过任意一个成员 slot 切换都会选中整个 Period
	require.NoError(t, w.TogglePeriodContaining("a"))
	require.Equal(t, []string{"a", "b"}, w.SelectedSlotIDs())

	require.NoError(t, w.TogglePeriodContaining("b"))
	require.Empty(t, w.SelectedSlotIDs())

	// 选择集合中永远不会只出现 {"a","b"} 中的一个
	require.NoError(t, w.TogglePeriod([]string{"a", "b"}))
	ids := w.SelectedSlotIDs()
	require.NotEqual(t, []string{"a"}, ids)
	require.NotEqual(t, []string{"b"}, ids)
	require.Equal(t, []string{"a", "b"}, ids)

	require.Error(t, w.TogglePeriodContaining("missing"))
}

func TestInactiveSlotsInvisible(t *testing.T) {
	slots := testSlots()
	slots[2].IsActive = false

	w := New(testConfig(), slots)
	days := w.Periods()
	require.Len(t, days, 1)
	require.Equal(t, "Monday", days[0].Day)
}
