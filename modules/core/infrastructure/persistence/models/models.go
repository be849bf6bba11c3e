package models

import "time"

type User struct {
	ID        uint
	Name      string
	Email     string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	ID          uint
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Permission struct {
	ID       string
	Name     string
	Resource string
	Action   string
}
