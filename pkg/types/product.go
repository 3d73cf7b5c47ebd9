package types

import "github.com/shopspring/decimal"

// Product is a row of the product table.
type Product struct {
	ProductID int64           `db:"productid" json:"product_id" yaml:"product_id"`
	Name      string          `db:"name" json:"name" yaml:"name"`
	Price     decimal.Decimal `db:"price" json:"price" yaml:"price"`
}

// Stock is a row of the stock table. A product has at most one stock row
// per supplier.
type Stock struct {
	ProductID    int64  `db:"productid" json:"product_id" yaml:"product_id"`
	SupplierID   int64  `db:"supplierid" json:"supplier_id" yaml:"supplier_id"`
	Quantity     int64  `db:"quantity" json:"quantity" yaml:"quantity"`
	PurchaseDate string `db:"purchasedate" json:"purchase_date" yaml:"purchase_date"`
}

// ProductRow is one line of the product grid: a product joined with one of
// its stock rows and the supplying supplier.
type ProductRow struct {
	ProductID    int64           `db:"productid" json:"product_id" yaml:"product_id"`
	Name         string          `db:"name" json:"name" yaml:"name"`
	Price        decimal.Decimal `db:"price" json:"price" yaml:"price"`
	Quantity     int64           `db:"quantity" json:"quantity" yaml:"quantity"`
	PurchaseDate string          `db:"purchasedate" json:"purchase_date" yaml:"purchase_date"`
	SupplierID   int64           `db:"supplierid" json:"supplier_id" yaml:"supplier_id"`
}

// ProductInput is a validated product write. ProductID is ignored in
// ModeInsert.
type ProductInput struct {
	ProductID  int64
	SupplierID int64
	Name       string
	Price      decimal.Decimal
	Quantity   int64
}
