package models

import (
	"time"
)

// Product is a catalog entry. Names are unique; lookups during order
// placement match by substring containment (see store.Catalog).
type Product struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category string `gorm:"type:varchar(100)" json:"category"`
	Cost     int    `gorm:"default:1" json:"cost"`
}

func (Product) TableName() string {
	return "products"
}

// Order is the order header. It is immutable once created; its lines
// are written together with it in a single transaction.
type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine associates one product with one order. A product may appear
// at most once per order.
type OrderLine struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`
	ProductID int64 `gorm:"not null;uniqueIndex:idx_order_product" json:"product_id"`
	Quantity  int   `gorm:"default:1" json:"quantity"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
