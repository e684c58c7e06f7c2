package domain

import "time"

type FRQQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	MaxWords int32  `json:"maxWords"`
}

// RecruitmentConfig 是全局的招新配置，数据库中只有一行
// 申请向导在创建时拿到它的一份不可变快照
type RecruitmentConfig struct {
	ID               int64         `json:"id"`
	ApplicationsOpen bool          `json:"applicationsOpen"`
	FRQQuestions     []FRQQuestion `json:"frqQuestions"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	Version          int32         `json:"-"`
}
