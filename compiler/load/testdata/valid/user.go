package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a row of the users table.
//
//tablegen:table table=users id=user_id insertable deletable
type User struct {
	UserID    int64      `tablegen:"column=id,get_one=get_by_user_id,get_by_any"`
	Email     string     `json:"email" tablegen:"get_optional=by_email(string),set"`
	Role      Role       `tablegen:"custom_type"`
	Token     uuid.UUID
	LastLogin *time.Time `tablegen:"default,set=touch"`
}

//tablegen:patch table_name=users table=User id=id
type UpdateUser struct {
	Email string
	Role  Role `tablegen:"custom_type"`
}

// Role is stored as text.
type Role string

// Plain has no directive and is ignored.
type Plain struct {
	Name string
}
