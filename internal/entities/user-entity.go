package entities

import "procurement-system/pkg/types"

type User struct {
	ID           int64   `json:"id"`
	Fio          string  `json:"fio"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Position     *string `json:"position"`
	RoleID       int64   `json:"role_id"`
	IsActive     bool    `json:"is_active"`

	types.BaseEntity
	types.SoftDelete
}

type Role struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`

	types.BaseEntity
}

type Permission struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`

	types.BaseEntity
}
