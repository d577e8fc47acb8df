package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type RestaurantTable struct {
	bun.BaseModel `bun:"table:restaurant_tables,alias:rt"`

	Id          int64     `bun:"id,pk,autoincrement" json:"id"`
	TableNumber int       `bun:"table_number,notnull,unique" json:"table_number"`
	Capacity    int       `bun:"capacity,notnull" json:"capacity"`
	Location    string    `bun:"location" json:"location,omitempty"`
	IsAvailable bool      `bun:"is_available,notnull,default:true" json:"is_available"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
