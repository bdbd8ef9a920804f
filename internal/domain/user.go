package domain

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin    Role = "超级管理员"
	RoleBusinessAdmin Role = "商家管理员"
	RoleBusinessStaff Role = "商家成员"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
