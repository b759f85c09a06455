package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"pos-receipt/pos/catalog"
	"pos-receipt/pos/types"
)

// CatalogActivities contains catalog persistence activities
type CatalogActivities struct {
	Store *catalog.Store
}

// LoadCatalog reads the stored catalog, falling back to the default menu
func (a *CatalogActivities) LoadCatalog(ctx context.Context) (types.Catalog, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Loading catalog")

	c, err := a.Store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load catalog", "error", err)
		return nil, err
	}

	logger.Info("Catalog loaded", "items", len(c))
	return c, nil
}

// AddItem appends an item to the catalog and persists it
func (a *CatalogActivities) AddItem(ctx context.Context, c types.Catalog, name string, price int64) (types.Catalog, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Adding catalog item", "name", name, "price", price)

	next, err := a.Store.AddItem(ctx, c, name, price)
	if err != nil {
		logger.Warn("Catalog item rejected", "name", name, "error", err)
		return nil, err
	}

	logger.Info("Catalog item added", "items", len(next))
	return next, nil
}

// DeleteItem removes the item at index and persists the catalog
func (a *CatalogActivities) DeleteItem(ctx context.Context, c types.Catalog, index int) (types.Catalog, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Deleting catalog item", "index", index)

	next, err := a.Store.DeleteItem(ctx, c, index)
	if err != nil {
		logger.Warn("Catalog delete rejected", "index", index, "error", err)
		return nil, err
	}

	logger.Info("Catalog item deleted", "items", len(next))
	return next, nil
}
