package wizard

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
)

// Period 是同一 (星期, 开始, 结束) 下所有房间时间段的合并视图
// SlotIDs 中的每个 slot 都有相同的星期和起止时间
type Period struct {
	Day          string   `json:"day"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	DisplayLabel string   `json:"displayLabel"`
	SlotIDs      []string `json:"slotIDs"`
}

type DayPeriods struct {
	Day     string   `json:"day"`
	Periods []Period `json:"periods"`
}

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// 展示给申请人时去掉末尾的房间标注，例如 "9:00 - 10:00 AM (Room 101)"
var roomSuffixRegexp = regexp.MustCompile(`\s*\(Room \d+\)\s*$`)

// GroupPeriods 把时间段列表按 (星期, 开始, 结束) 合并成 Period
// 每天内按开始时间排序（依赖 "HH:MM" 零填充格式），天按周一到周日排序
// 没有任何时间段的天不会出现在结果中
func GroupPeriods(slots []domain.TimeSlot) []DayPeriods {
	periodMap := make(map[string]*Period)

	for _, slot := range slots {
		key := fmt.Sprintf("%s|%s|%s", slot.DayOfWeek, slot.StartTime, slot.EndTime)
		period, exists := periodMap[key]
		if !exists {
			period = &Period{
				Day:          slot.DayOfWeek,
				StartTime:    slot.StartTime,
				EndTime:      slot.EndTime,
				DisplayLabel: roomSuffixRegexp.ReplaceAllString(slot.DisplayLabel, ""),
			}
			periodMap[key] = period
		}
		period.SlotIDs = append(period.SlotIDs, slot.ID)
	}

	byDay := make(map[string][]Period)
	for _, period := range periodMap {
		byDay[period.Day] = append(byDay[period.Day], *period)
	}

	result := make([]DayPeriods, 0, len(byDay))
	for _, day := range weekdayOrder {
		periods, exists := byDay[day]
		if !exists {
			continue
		}
		sort.Slice(periods, func(i, j int) bool {
			return periods[i].StartTime < periods[j].StartTime
		})
		result = append(result, DayPeriods{Day: day, Periods: periods})
	}

	return result
}

// Periods 返回当前向导可见时间段的合并视图
// 每次调用都从原始列表重新推导，避免出现和原始数据不一致的衍生状态
func (w *Wizard) Periods() []DayPeriods {
	return GroupPeriods(w.slots)
}

// TogglePeriod 以整个 Period 为单位切换选择
// 只要其中任意一个 slot 已被选中，就取消选择全部，否则选中全部
// 这样保证选择集合永远是若干完整 Period 的并集
func (w *Wizard) TogglePeriod(slotIDs []string) error {
	if !w.interactive() {
		return fmt.Errorf("当前状态 %s 不允许操作", w.status)
	}

	anySelected := false
	for _, id := range slotIDs {
		if w.selected[id] {
			anySelected = true
			break
		}
	}

	for _, id := range slotIDs {
		if anySelected {
			delete(w.selected, id)
		} else {
			w.selected[id] = true
		}
	}

	return nil
}

// TogglePeriodContaining 根据其中一个 slot 的 ID 找到所属 Period 并切换
func (w *Wizard) TogglePeriodContaining(slotID string) error {
	for _, day := range w.Periods() {
		for _, period := range day.Periods {
			for _, id := range period.SlotIDs {
				if id == slotID {
					return w.TogglePeriod(period.SlotIDs)
				}
			}
		}
	}
	return fmt.Errorf("时间段 %s 不存在", slotID)
}

// SelectedSlotIDs 返回已选择的 slot ID 列表，顺序稳定
func (w *Wizard) SelectedSlotIDs() []string {
	ids := make([]string, 0, len(w.selected))
	for id := range w.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PeriodSelected 判断一个 Period 是否处于选中状态
func (w *Wizard) PeriodSelected(period Period) bool {
	for _, id := range period.SlotIDs {
		if w.selected[id] {
			return true
		}
	}
	return false
}
