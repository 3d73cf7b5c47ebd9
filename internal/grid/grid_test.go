package grid

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

func sampleProducts() *Grid {
	return FromProducts([]types.ProductRow{
		{ProductID: 1, Name: "Blue Widget", Price: decimal.RequireFromString("2.5"), Quantity: 10, PurchaseDate: "2026-01-02", SupplierID: 1},
		{ProductID: 2, Name: "Gadget", Price: decimal.RequireFromString("14"), Quantity: 3, PurchaseDate: "2026-02-03", SupplierID: 2},
		{ProductID: 3, Name: "Sprocket", Price: decimal.RequireFromString("0.99"), Quantity: 150, PurchaseDate: "2026-03-04", SupplierID: 1},
	})
}

func TestFromProducts(t *testing.T) {
	g := sampleProducts()

	assert.Equal(t, ProductHeaders, g.Headers)
	require.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"1", "Blue Widget", "2.50", "10", "2026-01-02", "1"}, g.Rows[0])
	assert.Equal(t, []string{"2", "Gadget", "14.00", "3", "2026-02-03", "2"}, g.Rows[1])
	assert.Len(t, g.Records, 3)
}

func TestFromSalesAndSuppliers(t *testing.T) {
	sales := FromSales([]types.SaleRow{
		{SaleID: 7, CustomerName: "Ada", ProductName: "Gadget", Quantity: 2, TotalCost: decimal.RequireFromString("28"), SaleDate: "2026-04-01"},
	})
	assert.Equal(t, SaleHeaders, sales.Headers)
	assert.Equal(t, []string{"7", "Ada", "Gadget", "2", "28.00", "2026-04-01"}, sales.Rows[0])

	suppliers := FromSuppliers([]types.Supplier{{SupplierID: 4, Name: "Acme"}})
	assert.Equal(t, SupplierHeaders, suppliers.Headers)
	assert.Equal(t, []string{"4", "Acme"}, suppliers.Rows[0])
}

func TestFilter(t *testing.T) {
	g := sampleProducts()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty keeps all", text: "", want: []string{"1", "2", "3"}},
		{name: "case insensitive name", text: "WIDGET", want: []string{"1"}},
		{name: "matches any column", text: "2026-02", want: []string{"2"}},
		{name: "numeric substring", text: "15", want: []string{"3"}},
		{name: "no match", text: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Filter(tt.text)
			var ids []string
			for _, row := range got.Rows {
				ids = append(ids, row[0])
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(got.Rows), len(got.Records))
		})
	}
	assert.Equal(t, 3, g.Len(), "filter must not modify the source grid")
}

func TestFind(t *testing.T) {
	g := sampleProducts()

	rec, ok := g.Find("2")
	require.True(t, ok)
	assert.Equal(t, "Gadget", rec.(types.ProductRow).Name)

	_, ok = g.Find("9")
	assert.False(t, ok)
}

func TestWrite(t *testing.T) {
	g := FromSuppliers([]types.Supplier{{SupplierID: 1, Name: "Acme"}, {SupplierID: 2, Name: "Globex"}})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Write(&buf, FormatTable))
		out := buf.String()
		for _, want := range []string{"ID", "Name", "Acme", "Globex"} {
			assert.Contains(t, out, want)
		}
		assert.GreaterOrEqual(t, strings.Count(out, "\n"), 5)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Write(&buf, FormatJSON))
		var got []types.Supplier
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, []types.Supplier{{SupplierID: 1, Name: "Acme"}, {SupplierID: 2, Name: "Globex"}}, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Write(&buf, FormatYAML))
		var got []types.Supplier
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "Globex", got[1].Name)
	})

	t.Run("empty json is an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, FromSuppliers(nil).Write(&buf, FormatJSON))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		err := g.Write(&bytes.Buffer{}, "xml")
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestWrite_DecimalYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleProducts().Write(&buf, FormatYAML))
	assert.Contains(t, buf.String(), "2.5")
	assert.NotContains(t, buf.String(), "price: {}")
}
