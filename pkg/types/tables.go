package types

// Table names of the store schema.
const (
	SupplierTable = "supplier"
	ProductTable  = "product"
	StockTable    = "stock"
	CustomerTable = "customer"
	SaleTable     = "sale"
)

// StandardTableNames lists all tables in dependency order.
var StandardTableNames = []string{
	SupplierTable,
	ProductTable,
	StockTable,
	CustomerTable,
	SaleTable,
}
