// Package grid turns entity lists into the tabular views the storekeeper
// CLI shows: header row, string cells, text filtering and rendering.
package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Output formats accepted by Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Column headers of the three grids.
var (
	SupplierHeaders = []string{"ID", "Name"}
	ProductHeaders  = []string{"ID", "Name", "Price", "Quantity", "Purchase Date", "Supplier ID"}
	SaleHeaders     = []string{"ID", "Customer", "Product", "Quantity", "Total Cost", "Sale Date"}
)

// Grid is a rendered view of one table. Rows and Records are parallel:
// Rows[i] holds the display cells of Records[i].
type Grid struct {
	Title   string
	Headers []string
	Rows    [][]string
	Records []any
}

// Len returns the number of rows.
func (g *Grid) Len() int { return len(g.Rows) }

// FromSuppliers builds the supplier grid.
func FromSuppliers(suppliers []types.Supplier) *Grid {
	g := &Grid{Title: types.SupplierTable, Headers: SupplierHeaders}
	for _, s := range suppliers {
		g.Rows = append(g.Rows, []string{id(s.SupplierID), s.Name})
		g.Records = append(g.Records, s)
	}
	return g
}

// FromProducts builds the product grid, one row per stock entry.
func FromProducts(rows []types.ProductRow) *Grid {
	g := &Grid{Title: types.ProductTable, Headers: ProductHeaders}
	for _, r := range rows {
		g.Rows = append(g.Rows, []string{
			id(r.ProductID),
			r.Name,
			r.Price.StringFixed(2),
			id(r.Quantity),
			r.PurchaseDate,
			id(r.SupplierID),
		})
		g.Records = append(g.Records, r)
	}
	return g
}

// FromSales builds the sale grid.
func FromSales(rows []types.SaleRow) *Grid {
	g := &Grid{Title: types.SaleTable, Headers: SaleHeaders}
	for _, r := range rows {
		g.Rows = append(g.Rows, []string{
			id(r.SaleID),
			r.CustomerName,
			r.ProductName,
			id(r.Quantity),
			r.TotalCost.StringFixed(2),
			r.SaleDate,
		})
		g.Records = append(g.Records, r)
	}
	return g
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// Filter returns a grid holding only the rows where some cell contains
// text, ignoring case. An empty text keeps every row. The receiver is not
// modified.
func (g *Grid) Filter(text string) *Grid {
	out := &Grid{Title: g.Title, Headers: g.Headers}
	needle := strings.ToLower(text)
	for i, row := range g.Rows {
		if needle == "" || rowContains(row, needle) {
			out.Rows = append(out.Rows, row)
			out.Records = append(out.Records, g.Records[i])
		}
	}
	return out
}

func rowContains(row []string, needle string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), needle) {
			return true
		}
	}
	return false
}

// Find returns the record whose first column equals key.
func (g *Grid) Find(key string) (any, bool) {
	for i, row := range g.Rows {
		if len(row) > 0 && row[0] == key {
			return g.Records[i], true
		}
	}
	return nil, false
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table renders the grid as a bordered text table.
func (g *Grid) Table() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(g.Headers...).
		Rows(g.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// Write renders the grid to w in the given format.
func (g *Grid) Write(w io.Writer, format string) error {
	switch format {
	case FormatTable, "":
		_, err := fmt.Fprintln(w, g.Table())
		return err
	case FormatJSON:
		records := g.Records
		if records == nil {
			records = []any{}
		}
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", g.Title, err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		records := g.Records
		if records == nil {
			records = []any{}
		}
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshal %s: %w", g.Title, err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (valid: %s)", format, strings.Join(Formats, ", "))
	}
}
