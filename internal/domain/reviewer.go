package domain

import (
	"time"
)

type Role string

const (
	RoleInterviewer Role = "面试官"
	RoleRecruitLead Role = "招新负责人"
)

type Reviewer struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
