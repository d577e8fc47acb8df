package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`

	Id        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Subject   string    `bun:"subject" json:"subject,omitempty"`
	Message   string    `bun:"message,notnull" json:"message"`
	IsRead    bool      `bun:"is_read,notnull,default:false" json:"is_read"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
