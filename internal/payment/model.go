package payment

import (
	"time"

	"github.com/uptrace/bun"
)

// Status is the payment lifecycle tag. The three constants cover the known
// states; arbitrary strings still pass through the wire and the database
// unrejected, matching the historical behavior.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusOverdue Status = "Overdue"
)

// Payment is a fee obligation tied to one person. student_id carries no
// ON DELETE action: rows survive deletion of their person.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID            int       `bun:"payment_id,pk,autoincrement" json:"payment_id"`
	StudentID     int       `bun:"student_id,notnull" json:"student_id"`
	Amount        float64   `bun:"amount,notnull" json:"amount"`
	DueDate       Date      `bun:"due_date,notnull,type:date" json:"due_date"`
	PaymentDate   *Date     `bun:"payment_date,type:date" json:"payment_date"`
	PaymentMethod *string   `bun:"payment_method,type:varchar(50)" json:"payment_method"`
	Status        Status    `bun:"status,nullzero,type:varchar(20),default:'Pending'" json:"status"`
	Notes         *string   `bun:"notes,type:varchar(500)" json:"notes"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type CreateRequest struct {
	StudentID     int     `json:"student_id" validate:"required"`
	Amount        float64 `json:"amount"`
	DueDate       Date    `json:"due_date"`
	PaymentDate   *Date   `json:"payment_date"`
	PaymentMethod *string `json:"payment_method"`
	Status        Status  `json:"status"`
	Notes         *string `json:"notes"`
}

// Update carries one optional slot per mutable field; only non-nil fields
// are applied.
type Update struct {
	Amount        *float64 `json:"amount"`
	DueDate       *Date    `json:"due_date"`
	PaymentDate   *Date    `json:"payment_date"`
	PaymentMethod *string  `json:"payment_method"`
	Status        *Status  `json:"status"`
	Notes         *string  `json:"notes"`
}

func (u *Update) IsEmpty() bool {
	return u.Amount == nil && u.DueDate == nil && u.PaymentDate == nil &&
		u.PaymentMethod == nil && u.Status == nil && u.Notes == nil
}
