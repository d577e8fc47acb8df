package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AuthUser struct {
	bun.BaseModel `bun:"table:auth_users,alias:au"`

	Id           uuid.UUID  `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         string     `bun:"role,notnull,default:'customer'" json:"role"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	LastLogin    *time.Time `bun:"last_login" json:"last_login,omitempty"`
}

type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	Id        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull" json:"email"`
	FullName  string    `bun:"full_name" json:"full_name"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type PasswordReset struct {
	bun.BaseModel `bun:"table:password_resets,alias:pr"`

	TokenHash string     `bun:"token_hash,pk" json:"-"`
	UserId    uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	ExpiresAt time.Time  `bun:"expires_at,notnull" json:"expires_at"`
	UsedAt    *time.Time `bun:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
