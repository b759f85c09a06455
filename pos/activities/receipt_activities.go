package activities

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"pos-receipt/pos/receipt"
	"pos-receipt/pos/types"
)

// ReceiptActivities contains receipt export activities
type ReceiptActivities struct {
	Exporter receipt.Exporter
}

// ExportReceipt prints or exports an issued receipt and returns where it went
func (a *ReceiptActivities) ExportReceipt(ctx context.Context, r types.Receipt) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Exporting receipt", "sessionID", r.SessionID, "number", r.Number)

	if a.Exporter == nil {
		return "", errors.New("receipt export is not configured")
	}

	path, err := a.Exporter.Export(ctx, r)
	if err != nil {
		logger.Warn("Receipt export failed", "number", r.Number, "error", err)
		return "", err
	}

	logger.Info("Receipt exported", "path", path)
	return path, nil
}
