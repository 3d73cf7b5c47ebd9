package controller

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// ProductForm holds the product fields as typed.
type ProductForm struct {
	ProductID  string
	SupplierID string
	Name       string
	Price      string
	Quantity   string
}

// SaleForm holds the sale fields as typed.
type SaleForm struct {
	SaleID       string
	CustomerName string
	ProductID    string
	Quantity     string
}

func (f ProductForm) input(mode types.Mode) (types.ProductInput, error) {
	if f.Name == "" || f.Price == "" || f.Quantity == "" {
		return types.ProductInput{}, types.ErrMissingFields
	}

	var in types.ProductInput
	var err error
	in.Name = f.Name
	if in.SupplierID, err = parseID(f.SupplierID); err != nil {
		return types.ProductInput{}, err
	}
	if in.Price, err = decimal.NewFromString(strings.TrimSpace(f.Price)); err != nil {
		return types.ProductInput{}, types.ErrInvalidInput
	}
	if in.Quantity, err = parseID(f.Quantity); err != nil {
		return types.ProductInput{}, err
	}
	if mode == types.ModeUpdate {
		if in.ProductID, err = parseID(f.ProductID); err != nil {
			return types.ProductInput{}, err
		}
	}
	return in, nil
}

func (f SaleForm) input(mode types.Mode) (types.SaleInput, error) {
	if f.ProductID == "" || f.CustomerName == "" || f.Quantity == "" {
		return types.SaleInput{}, types.ErrMissingFields
	}

	var in types.SaleInput
	var err error
	in.CustomerName = f.CustomerName
	if in.ProductID, err = parseID(f.ProductID); err != nil {
		return types.SaleInput{}, err
	}
	if in.Quantity, err = parseID(f.Quantity); err != nil {
		return types.SaleInput{}, err
	}
	if mode == types.ModeUpdate {
		if in.SaleID, err = parseID(f.SaleID); err != nil {
			return types.SaleInput{}, err
		}
	}
	return in, nil
}

// parseID parses an integer field; any failure is ErrInvalidInput.
func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, types.ErrInvalidInput
	}
	return n, nil
}

func formatID(n int64) string { return strconv.FormatInt(n, 10) }
