package types

// Supplier is a row of the supplier table.
type Supplier struct {
	SupplierID int64  `db:"supplierid" json:"supplier_id" yaml:"supplier_id"`
	Name       string `db:"name" json:"name" yaml:"name"`
}

// Customer is a row of the customer table. Name is used as a lookup key
// although the schema does not make it unique.
type Customer struct {
	CustomerID int64  `db:"customerid" json:"customer_id" yaml:"customer_id"`
	Name       string `db:"name" json:"name" yaml:"name"`
}
