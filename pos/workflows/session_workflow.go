package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"pos-receipt/pos/catalog"
	"pos-receipt/pos/session"
	"pos-receipt/pos/types"
)

// Signal and query names understood by SessionWorkflow
const (
	SignalAdjustQuantity  = "adjust-quantity"
	SignalSetDiscount     = "set-discount"
	SignalAddItem         = "add-item"
	SignalDeleteItem      = "delete-item"
	SignalGenerateReceipt = "generate-receipt"
	SignalCloseReceipt    = "close-receipt"
	SignalEndSession      = "end-session"

	QueryStatus  = "get-status"
	QueryCatalog = "get-catalog"
	QuerySummary = "get-summary"
)

// End reasons reported in SessionResult
const (
	EndReasonClosed = "closed"
	EndReasonIdle   = "idle"
)

// DefaultIdleTimeout ends a session nobody has touched for a working day
const DefaultIdleTimeout = 8 * time.Hour

// SessionWorkflow runs one point-of-sale session:
// - Catalog view: adjust quantities, set a discount, add or delete items
// - Receipt view: one immutable summary, optionally exported
// - close-receipt returns to a fresh catalog view
// State is only changed by signals; queries expose it.
func SessionWorkflow(ctx workflow.Context, input types.SessionInput) (*types.SessionResult, error) {
	logger := workflow.GetLogger(ctx)
	sessionID := workflow.GetInfo(ctx).WorkflowExecution.ID

	idleTimeout := input.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:        1 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        5,
		NonRetryableErrorTypes: types.NonRetryableErrorTypes,
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         retryPolicy,
	})

	// Exports are best effort; a stuck printer should not hold the session for long
	exportCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	})

	var items types.Catalog
	if err := workflow.ExecuteActivity(ctx, "LoadCatalog").Get(ctx, &items); err != nil {
		logger.Error("Failed to load catalog", "error", err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	state := session.New(items)
	status := types.SessionStatus{
		SessionID:      sessionID,
		ReceiptsIssued: input.ReceiptsIssued,
		Revision:       input.Revision,
	}
	syncStatus := func() {
		status.View = state.View
		status.Catalog = state.Catalog
		status.Quantities = state.Quantities
		status.DiscountPercent = state.DiscountPercent
		status.Summary = state.Summary
	}
	syncStatus()

	err := workflow.SetQueryHandler(ctx, QueryStatus, func() (types.SessionStatus, error) {
		return status, nil
	})
	if err != nil {
		return nil, err
	}

	err = workflow.SetQueryHandler(ctx, QueryCatalog, func() (types.Catalog, error) {
		return state.Catalog, nil
	})
	if err != nil {
		return nil, err
	}

	err = workflow.SetQueryHandler(ctx, QuerySummary, func() (*types.OrderSummary, error) {
		return state.Summary, nil
	})
	if err != nil {
		return nil, err
	}

	sigAdjust := workflow.GetSignalChannel(ctx, SignalAdjustQuantity)
	sigDiscount := workflow.GetSignalChannel(ctx, SignalSetDiscount)
	sigAddItem := workflow.GetSignalChannel(ctx, SignalAddItem)
	sigDeleteItem := workflow.GetSignalChannel(ctx, SignalDeleteItem)
	sigGenerate := workflow.GetSignalChannel(ctx, SignalGenerateReceipt)
	sigClose := workflow.GetSignalChannel(ctx, SignalCloseReceipt)
	sigEnd := workflow.GetSignalChannel(ctx, SignalEndSession)
	channels := []workflow.ReceiveChannel{
		sigAdjust, sigDiscount, sigAddItem, sigDeleteItem, sigGenerate, sigClose, sigEnd,
	}

	// apply records the outcome of one action; a rejected action leaves state as it was
	apply := func(action string, next session.State, err error) {
		if err != nil {
			status.LastError = fmt.Sprintf("%s: %s", action, errorMessage(err))
			logger.Warn("Action rejected", "action", action, "error", err)
			return
		}
		state = next
		status.LastError = ""
		syncStatus()
	}

	receiptsThisRun := 0
	endReason := ""

	for endReason == "" {
		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		idleTimer := workflow.NewTimer(timerCtx, idleTimeout)

		selector := workflow.NewSelector(ctx)

		selector.AddReceive(sigAdjust, func(ch workflow.ReceiveChannel, more bool) {
			var req types.AdjustQuantityRequest
			ch.Receive(ctx, &req)
			next, err := state.AdjustQuantity(req.Index, req.Delta)
			apply(SignalAdjustQuantity, next, err)
		})

		selector.AddReceive(sigDiscount, func(ch workflow.ReceiveChannel, more bool) {
			var req types.SetDiscountRequest
			ch.Receive(ctx, &req)
			next, err := state.SetDiscount(req.Percent)
			apply(SignalSetDiscount, next, err)
		})

		selector.AddReceive(sigAddItem, func(ch workflow.ReceiveChannel, more bool) {
			var req types.AddItemRequest
			ch.Receive(ctx, &req)
			next, err := addItem(ctx, state, req)
			if err == nil {
				logger.Info("Item added", "name", req.Name, "items", len(next.Catalog))
			}
			apply(SignalAddItem, next, err)
		})

		selector.AddReceive(sigDeleteItem, func(ch workflow.ReceiveChannel, more bool) {
			var req types.DeleteItemRequest
			ch.Receive(ctx, &req)
			next, err := deleteItem(ctx, state, req)
			if err == nil {
				logger.Info("Item deleted", "index", req.Index, "items", len(next.Catalog))
			}
			apply(SignalDeleteItem, next, err)
		})

		selector.AddReceive(sigGenerate, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			next, err := state.GenerateReceipt()
			apply(SignalGenerateReceipt, next, err)
			if err != nil {
				return
			}

			status.ReceiptsIssued++
			receiptsThisRun++
			status.LastReceiptPath = ""
			logger.Info("Receipt generated",
				"number", status.ReceiptsIssued,
				"total", next.Summary.Total,
				"totalAfterDiscount", next.Summary.TotalAfterDiscount)

			if !input.ExportReceipts {
				return
			}
			r := types.Receipt{
				SessionID: sessionID,
				Number:    status.ReceiptsIssued,
				IssuedAt:  workflow.Now(ctx),
				Summary:   *next.Summary,
			}
			var path string
			if err := workflow.ExecuteActivity(exportCtx, "ExportReceipt", r).Get(ctx, &path); err != nil {
				// Non-critical failure - the receipt stays on screen
				status.LastError = fmt.Sprintf("export receipt: %s", errorMessage(err))
				logger.Warn("Receipt export failed", "number", r.Number, "error", err)
				return
			}
			status.LastReceiptPath = path
		})

		selector.AddReceive(sigClose, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			next, err := state.Close()
			apply(SignalCloseReceipt, next, err)
		})

		selector.AddReceive(sigEnd, func(ch workflow.ReceiveChannel, more bool) {
			ch.Receive(ctx, nil)
			endReason = EndReasonClosed
			logger.Info("Session ended by user")
		})

		selector.AddFuture(idleTimer, func(f workflow.Future) {
			endReason = EndReasonIdle
			logger.Info("Session idle timeout", "timeout", idleTimeout)
		})

		selector.Select(ctx)
		cancelTimer()
		status.Revision++

		// Only a clean catalog view may be handed to the next run; the input
		// carries counters, not an order in progress.
		if endReason == "" &&
			input.MaxReceiptsPerRun > 0 &&
			receiptsThisRun >= input.MaxReceiptsPerRun &&
			state.IsClean() &&
			!hasPending(channels) {
			logger.Info("Continuing session as new", "receiptsIssued", status.ReceiptsIssued)
			next := input
			next.ReceiptsIssued = status.ReceiptsIssued
			next.Revision = status.Revision
			return nil, workflow.NewContinueAsNewError(ctx, SessionWorkflow, next)
		}
	}

	logger.Info("Session completed", "sessionID", sessionID, "reason", endReason, "receipts", status.ReceiptsIssued)

	return &types.SessionResult{
		SessionID:      sessionID,
		ReceiptsIssued: status.ReceiptsIssued,
		EndReason:      endReason,
		EndedAt:        workflow.Now(ctx),
	}, nil
}

func addItem(ctx workflow.Context, state session.State, req types.AddItemRequest) (session.State, error) {
	if err := state.RequireView(types.ViewCatalog, "add an item"); err != nil {
		return state, err
	}
	price, err := catalog.ParsePrice(req.Price)
	if err != nil {
		return state, err
	}
	if err := catalog.ValidateItem(req.Name, price); err != nil {
		return state, err
	}

	var next types.Catalog
	if err := workflow.ExecuteActivity(ctx, "AddItem", state.Catalog, req.Name, price).Get(ctx, &next); err != nil {
		return state, err
	}
	return state.WithCatalog(next)
}

func deleteItem(ctx workflow.Context, state session.State, req types.DeleteItemRequest) (session.State, error) {
	if err := state.RequireView(types.ViewCatalog, "delete an item"); err != nil {
		return state, err
	}
	if req.Index < 0 || req.Index >= len(state.Catalog) {
		return state, &types.PreconditionError{
			Msg: fmt.Sprintf("item index %d out of range [0,%d)", req.Index, len(state.Catalog)),
		}
	}

	var next types.Catalog
	if err := workflow.ExecuteActivity(ctx, "DeleteItem", state.Catalog, req.Index).Get(ctx, &next); err != nil {
		return state, err
	}
	return state.WithCatalog(next)
}

func hasPending(channels []workflow.ReceiveChannel) bool {
	for _, ch := range channels {
		if ch.Len() > 0 {
			return true
		}
	}
	return false
}

// errorMessage unwraps activity failures down to the application error text
func errorMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
