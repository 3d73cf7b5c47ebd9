package types

import "github.com/shopspring/decimal"

// Sale is a row of the sale table. The total cost is not stored.
type Sale struct {
	SaleID     int64  `db:"saleid" json:"sale_id" yaml:"sale_id"`
	CustomerID int64  `db:"customerid" json:"customer_id" yaml:"customer_id"`
	ProductID  int64  `db:"productid" json:"product_id" yaml:"product_id"`
	Quantity   int64  `db:"quantity" json:"quantity" yaml:"quantity"`
	SaleDate   string `db:"saledate" json:"sale_date" yaml:"sale_date"`
}

// SaleRow is one line of the sale grid. TotalCost is Quantity times the
// current product Price.
type SaleRow struct {
	SaleID       int64           `db:"saleid" json:"sale_id" yaml:"sale_id"`
	CustomerName string          `db:"customer_name" json:"customer_name" yaml:"customer_name"`
	ProductName  string          `db:"product_name" json:"product_name" yaml:"product_name"`
	Quantity     int64           `db:"quantity" json:"quantity" yaml:"quantity"`
	Price        decimal.Decimal `db:"price" json:"-" yaml:"-"`
	TotalCost    decimal.Decimal `db:"-" json:"total_cost" yaml:"total_cost"`
	SaleDate     string          `db:"saledate" json:"sale_date" yaml:"sale_date"`
}

// SaleInput is a validated sale write. SaleID is ignored in ModeInsert.
type SaleInput struct {
	SaleID       int64
	CustomerName string
	ProductID    int64
	Quantity     int64
}

// SaleResult reports what a sale write did besides the sale itself.
type SaleResult struct {
	SaleID          int64
	CustomerID      int64
	CustomerCreated bool
}
