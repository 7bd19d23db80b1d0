package person

import (
	"time"

	"github.com/uptrace/bun"
)

// Person is a student and/or teacher record. The two roles are independent
// flags, neither required.
type Person struct {
	bun.BaseModel `bun:"table:user_info,alias:u"`

	ID        int       `bun:"user_id,pk,autoincrement" json:"user_id"`
	IsStudent bool      `bun:"is_student" json:"is_student"`
	IsTeacher bool      `bun:"is_teacher" json:"is_teacher"`
	Name      string    `bun:"name,notnull,unique,type:varchar(255)" json:"name"`
	Email     string    `bun:"email,type:varchar(255)" json:"email"`
	Phone     string    `bun:"phone,type:varchar(50)" json:"phone"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type CreateRequest struct {
	IsStudent bool   `json:"is_student"`
	IsTeacher bool   `json:"is_teacher"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
}

// Update carries one optional slot per mutable field. Only non-nil fields are
// applied; created_at and the id are never patched.
type Update struct {
	IsStudent *bool   `json:"is_student"`
	IsTeacher *bool   `json:"is_teacher"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (u *Update) IsEmpty() bool {
	return u.IsStudent == nil && u.IsTeacher == nil && u.Name == nil && u.Email == nil && u.Phone == nil
}
