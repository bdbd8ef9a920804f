package domain

import "time"

type Employee struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessID"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"isActive"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

type Branch struct {
	ID         int64     `json:"id"`
	BusinessID int64     `json:"businessID"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"isActive"`
	IsArchived bool      `json:"isArchived"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}
