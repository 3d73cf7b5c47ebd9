package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

const listSalesQuery = `
SELECT sale.saleid,
       customer.name AS customer_name,
       product.name AS product_name,
       sale.quantity,
       product.price,
       COALESCE(sale.saledate, '') AS saledate
FROM sale
INNER JOIN customer ON sale.customerid = customer.customerid
INNER JOIN product ON sale.productid = product.productid
ORDER BY sale.saleid`

// ListSales returns the sale grid rows. The total cost is quantity times
// the current product price, multiplied in decimal.
func (s *Session) ListSales(ctx context.Context) ([]types.SaleRow, error) {
	var rows []types.SaleRow
	err := s.view(ctx, func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, &rows, listSalesQuery)
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	for i := range rows {
		rows[i].TotalCost = rows[i].Price.Mul(decimal.NewFromInt(rows[i].Quantity))
	}
	return rows, nil
}

// SaveSale records a sale for the customer named in.CustomerName, creating
// the customer on first use. ModeInsert runs the purchase procedure;
// ModeUpdate rewrites sale in.SaleID. Customer creation and the sale write
// commit or roll back together.
func (s *Session) SaveSale(ctx context.Context, mode types.Mode, in types.SaleInput) (types.SaleResult, error) {
	if !mode.Valid() {
		return types.SaleResult{}, types.ErrInvalidMode
	}
	if in.CustomerName == "" {
		return types.SaleResult{}, types.ErrInvalidName
	}

	var result types.SaleResult
	err := s.WithTx(ctx, func(q sqlx.ExtContext) error {
		customerID, created, err := ensureCustomer(ctx, q, in.CustomerName)
		if err != nil {
			return fmt.Errorf("resolving customer: %w", err)
		}
		result.CustomerID = customerID
		result.CustomerCreated = created

		switch mode {
		case types.ModeInsert:
			result.SaleID, err = s.procedures.MakePurchase(ctx, q, customerID, in.ProductID, in.Quantity)
		case types.ModeUpdate:
			result.SaleID = in.SaleID
			err = s.procedures.UpdateSale(ctx, q, customerID, in.ProductID, in.Quantity, in.SaleID)
		}
		return err
	})
	if err != nil {
		return types.SaleResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"mode":             mode.String(),
		"sale_id":          result.SaleID,
		"customer_id":      result.CustomerID,
		"customer_created": result.CustomerCreated,
	}).Debug("sale saved")
	return result, nil
}

// DeleteSale removes a sale row. Stock is not restored.
func (s *Session) DeleteSale(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return s.WithTx(ctx, func(q sqlx.ExtContext) error {
		return deleteByID(ctx, q, "DELETE FROM sale WHERE saleid = ?", id)
	})
}
