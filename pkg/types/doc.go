// Package types defines the entity types, write modes, configuration and
// standard errors shared by the storekeeper packages.
//
// Entities mirror the store database tables: supplier, product, stock,
// customer and sale. List rows (ProductRow, SaleRow) carry the joined
// columns the grids display.
package types
