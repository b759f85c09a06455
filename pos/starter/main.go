package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"pos-receipt/pos/config"
	"pos-receipt/pos/logging"
	"pos-receipt/pos/receipt"
	"pos-receipt/pos/types"
	"pos-receipt/pos/workflows"
)

const usage = `Usage: starter [flags] <command> [args]

Commands:
  start                   start a new session
  adjust <index> <delta>  change the quantity of an item (e.g. adjust 3 -1)
  discount <percent>      set the discount percentage (0-100)
  add <name> <price>      add an item to the catalog
  delete <index>          remove an item from the catalog
  receipt                 generate the receipt and print it
  close                   close the receipt and start a fresh order
  status                  print the menu or the current receipt
  end                     end the session

Flags:
`

var logger *zap.Logger

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	flags := pflag.NewFlagSet("starter", pflag.ExitOnError)
	sessionID := flags.StringP("session", "s", os.Getenv("POS_SESSION_ID"), "session (workflow) ID")
	flags.StringVar(&cfg.TemporalHost, "host", cfg.TemporalHost, "Temporal frontend host:port")
	flags.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "Temporal namespace")
	flags.StringVar(&cfg.TaskQueue, "task-queue", cfg.TaskQueue, "task queue the worker listens on")
	wait := flags.Duration("wait", 5*time.Second, "how long to wait for the session to apply a command")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}

	logger, err = logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.Namespace,
		Logger:    logging.NewTemporalLogger(logger),
	})
	if err != nil {
		logger.Fatal("unable to create Temporal client", zap.Error(err))
	}
	defer c.Close()

	r := runner{
		c:      c,
		cfg:    cfg,
		id:     *sessionID,
		wait:   *wait,
		locale: receipt.ParseLocale(cfg.ReceiptLocale),
	}
	if err := r.run(context.Background(), args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type runner struct {
	c      client.Client
	cfg    config.Config
	id     string
	wait   time.Duration
	locale language.Tag
}

func (r runner) run(ctx context.Context, cmd string, args []string) error {
	if cmd == "start" {
		return r.start(ctx)
	}
	if r.id == "" {
		return fmt.Errorf("--session is required for %q", cmd)
	}

	switch cmd {
	case "adjust":
		if len(args) != 2 {
			return fmt.Errorf("usage: adjust <index> <delta>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		delta, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[1])
		}
		return r.signalAndShow(ctx, workflows.SignalAdjustQuantity, types.AdjustQuantityRequest{Index: index, Delta: delta})

	case "discount":
		if len(args) != 1 {
			return fmt.Errorf("usage: discount <percent>")
		}
		pct, err := decimal.NewFromString(strings.TrimSuffix(args[0], "%"))
		if err != nil {
			return fmt.Errorf("invalid percent %q", args[0])
		}
		return r.signalAndShow(ctx, workflows.SignalSetDiscount, types.SetDiscountRequest{Percent: pct})

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: add <name> <price>")
		}
		name := strings.Join(args[:len(args)-1], " ")
		price := args[len(args)-1]
		return r.signalAndShow(ctx, workflows.SignalAddItem, types.AddItemRequest{Name: name, Price: price})

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <index>")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		return r.signalAndShow(ctx, workflows.SignalDeleteItem, types.DeleteItemRequest{Index: index})

	case "receipt":
		return r.signalAndShow(ctx, workflows.SignalGenerateReceipt, nil)

	case "close":
		return r.signalAndShow(ctx, workflows.SignalCloseReceipt, nil)

	case "status":
		s, err := r.status(ctx)
		if err != nil {
			return err
		}
		r.show(s)
		return nil

	case "end":
		if err := r.c.SignalWorkflow(ctx, r.id, "", workflows.SignalEndSession, nil); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		var result types.SessionResult
		if err := r.c.GetWorkflow(ctx, r.id, "").Get(ctx, &result); err != nil {
			return fmt.Errorf("session failed: %w", err)
		}
		fmt.Printf("Session %s ended (%s), %d receipts issued\n", result.SessionID, result.EndReason, result.ReceiptsIssued)
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (r runner) start(ctx context.Context) error {
	id := r.id
	if id == "" {
		id = fmt.Sprintf("pos-session-%d", time.Now().Unix())
	}

	options := client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: r.cfg.TaskQueue,
	}
	input := types.SessionInput{
		IdleTimeout:       r.cfg.IdleTimeout,
		MaxReceiptsPerRun: r.cfg.MaxReceiptsPerRun,
		ExportReceipts:    r.cfg.ExportEnabled(),
	}

	we, err := r.c.ExecuteWorkflow(ctx, options, workflows.SessionWorkflow, input)
	if err != nil {
		return fmt.Errorf("unable to start session: %w", err)
	}
	logger.Info("session started",
		zap.String("workflow_id", we.GetID()),
		zap.String("run_id", we.GetRunID()))

	fmt.Printf("Session started: %s\n", we.GetID())
	fmt.Printf("  export POS_SESSION_ID=%s\n\n", we.GetID())

	r.id = we.GetID()
	s, err := r.waitFor(ctx, func(s types.SessionStatus) bool { return s.View != "" })
	if err != nil {
		return err
	}
	r.show(s)
	return nil
}

// signalAndShow sends one signal and prints the session once the workflow has
// handled it, or whatever it shows when the wait runs out.
func (r runner) signalAndShow(ctx context.Context, name string, payload interface{}) error {
	// A failed query leaves before at revision zero
	before, _ := r.status(ctx)
	if err := r.c.SignalWorkflow(ctx, r.id, "", name, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}
	s, err := r.waitFor(ctx, handledSince(before))
	if err != nil {
		return err
	}
	r.show(s)
	return nil
}

// handledSince reports whether a status reflects a signal sent after before was taken
func handledSince(before types.SessionStatus) func(types.SessionStatus) bool {
	return func(s types.SessionStatus) bool {
		return s.Revision > before.Revision
	}
}

func (r runner) waitFor(ctx context.Context, done func(types.SessionStatus) bool) (types.SessionStatus, error) {
	deadline := time.Now().Add(r.wait)
	for {
		s, err := r.status(ctx)
		if err == nil && done(s) {
			return s, nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return s, err
			}
			return s, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func (r runner) status(ctx context.Context) (types.SessionStatus, error) {
	var s types.SessionStatus
	resp, err := r.c.QueryWorkflow(ctx, r.id, "", workflows.QueryStatus)
	if err != nil {
		return s, fmt.Errorf("failed to query session: %w", err)
	}
	if err := resp.Get(&s); err != nil {
		return s, fmt.Errorf("failed to decode session status: %w", err)
	}
	return s, nil
}

func (r runner) show(s types.SessionStatus) {
	if s.View == types.ViewReceipt && s.Summary != nil {
		fmt.Println(receipt.Format(types.Receipt{
			SessionID: s.SessionID,
			Number:    s.ReceiptsIssued,
			Summary:   *s.Summary,
		}, r.locale))
		if s.LastReceiptPath != "" {
			fmt.Printf("\nSaved to %s\n", s.LastReceiptPath)
		}
	} else {
		fmt.Print(receipt.Menu(s.Catalog, s.Quantities, r.locale))
		if !s.DiscountPercent.IsZero() {
			fmt.Printf("Discount: %s%%\n", s.DiscountPercent.String())
		}
	}
	if s.LastError != "" {
		fmt.Printf("\n⚠️  %s\n", s.LastError)
	}
}
