package domain

import "time"

// TimeSlot 表示一个具体的、带房间的面试时间段
// StartTime 和 EndTime 均为零填充的 "HH:MM" 格式，保证可以按字符串排序
type TimeSlot struct {
	ID           string    `json:"id"`
	DayOfWeek    string    `json:"dayOfWeek"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Room         string    `json:"room"`
	DisplayLabel string    `json:"displayLabel"`
	MaxCapacity  int32     `json:"maxCapacity"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
