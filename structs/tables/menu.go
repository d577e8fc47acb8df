package tables

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func init() {
	// Prices travel as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type MenuCategory struct {
	bun.BaseModel `bun:"table:menu_categories,alias:mc"`

	Id           int64     `bun:"id,pk,autoincrement" json:"id"`
	Name         string    `bun:"name,notnull,unique" json:"name"`
	Description  string    `bun:"description" json:"description,omitempty"`
	DisplayOrder int       `bun:"display_order,notnull,default:0" json:"display_order"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Items []MenuItem `bun:"rel:has-many,join:id=category_id" json:"menu_items,omitempty"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	Id          int64           `bun:"id,pk,autoincrement" json:"id"`
	CategoryId  int64           `bun:"category_id,notnull" json:"category_id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Description string          `bun:"description" json:"description,omitempty"`
	Price       decimal.Decimal `bun:"price,type:numeric(10,2),notnull" json:"price"`
	ImageUrl    string          `bun:"image_url" json:"image_url,omitempty"`
	IsAvailable bool            `bun:"is_available,notnull,default:true" json:"is_available"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Category *MenuCategory `bun:"rel:belongs-to,join:category_id=id" json:"menu_categories,omitempty"`
}

// CategoryRef is the trimmed category attached to a single menu item lookup.
type CategoryRef struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}
