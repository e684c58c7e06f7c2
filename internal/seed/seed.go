package seed

import (
	"fmt"
	"log/slog"

	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recruit-manager/backend/internal/repository"
)

// 默认的简答题，和往年招新使用的题目一致
var DefaultFRQQuestions = []domain.FRQQuestion{
	{
		ID:       "q_motivation",
		Question: "Why do you want to join ECNC, and what do you hope to get out of it?",
		MaxWords: 150,
	},
	{
		ID:       "q_experience",
		Question: "Describe a technical problem you solved recently. What made it hard?",
		MaxWords: 200,
	},
	{
		ID:       "q_availability",
		Question: "How many hours per week can you realistically commit during the semester?",
		MaxWords: 100,
	},
}

type slotPeriod struct {
	startTime    string
	endTime      string
	displayLabel string
}

// 面试安排在工作日下午，每半小时一批，每个房间一批最多 3 人
var defaultPeriods = []slotPeriod{
	{"16:00", "16:30", "4:00 - 4:30 PM"},
	{"16:30", "17:00", "4:30 - 5:00 PM"},
	{"17:00", "17:30", "5:00 - 5:30 PM"},
}

var defaultDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
var defaultRooms = []string{"101", "102"}

// SeedDefaults 插入默认的招新配置和面试时间段
func SeedDefaults(r *repository.Repository) {
	cfg := &domain.RecruitmentConfig{
		ApplicationsOpen: true,
		FRQQuestions:     DefaultFRQQuestions,
	}
	if err := r.CreateRecruitmentConfig(cfg); err != nil {
		slog.Error("无法插入招新配置", slog.String("error", err.Error()))
		return
	}
	slog.Info("插入招新配置成功")

	cnt := 0
	for _, day := range defaultDays {
		for _, period := range defaultPeriods {
			for _, room := range defaultRooms {
				slot := &domain.TimeSlot{
					DayOfWeek:    day,
					StartTime:    period.startTime,
					EndTime:      period.endTime,
					Room:         room,
					DisplayLabel: fmt.Sprintf("%s (Room %s)", period.displayLabel, room),
					MaxCapacity:  3,
					IsActive:     true,
				}

				if err := r.CreateTimeSlot(slot); err != nil {
					slog.Error("无法插入时间段", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}
		}
	}

	slog.Info("插入时间段成功", slog.Int("count", cnt))
}
