package main

import (
	"context"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"pos-receipt/pos/activities"
	"pos-receipt/pos/catalog"
	"pos-receipt/pos/config"
	"pos-receipt/pos/logging"
	"pos-receipt/pos/receipt"
	"pos-receipt/pos/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
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

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		logger.Fatal("unable to open catalog store",
			zap.String("backend", cfg.StoreBackend),
			zap.Error(err))
	}
	defer closeKV()

	store := catalog.NewStore(kv,
		catalog.WithKey(cfg.CatalogKey),
		catalog.WithLogger(logger.Named("catalog")))

	w := worker.New(c, cfg.TaskQueue, worker.Options{
		Identity:                               "pos-worker-" + hostname(),
		MaxConcurrentActivityExecutionSize:     10,
		MaxConcurrentWorkflowTaskExecutionSize: 10,
	})

	// Register workflows
	w.RegisterWorkflow(workflows.SessionWorkflow)

	// Register activities
	catalogActivities := &activities.CatalogActivities{Store: store}
	w.RegisterActivity(catalogActivities.LoadCatalog)
	w.RegisterActivity(catalogActivities.AddItem)
	w.RegisterActivity(catalogActivities.DeleteItem)

	receiptActivities := &activities.ReceiptActivities{}
	if cfg.ExportEnabled() {
		receiptActivities.Exporter = receipt.NewFileExporter(cfg.ReceiptDir, receipt.ParseLocale(cfg.ReceiptLocale))
	}
	w.RegisterActivity(receiptActivities.ExportReceipt)

	logger.Info("worker starting",
		zap.String("task_queue", cfg.TaskQueue),
		zap.String("identity", "pos-worker-"+hostname()),
		zap.String("store", cfg.StoreBackend),
		zap.Bool("export_receipts", cfg.ExportEnabled()))

	// Start worker
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("unable to start worker", zap.Error(err))
	}
}

func openKV(cfg config.Config) (catalog.KV, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		kv, err := catalog.NewRedisKV(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case config.StoreMemory:
		return catalog.NewMemoryKV(), func() {}, nil
	default:
		kv, err := catalog.NewFileKV(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
