package domain

import "time"

type Business struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"isActive"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// BusinessMembership 表示某个用户在某个商家中的成员关系
// 列表按加入时间排序，排在第一位的是该用户的默认商家
type BusinessMembership struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userID"`
	BusinessID int64     `json:"businessID"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}
