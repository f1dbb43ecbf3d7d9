package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/amqp"
	applog "expensetracker/internal/log"
	"expensetracker/internal/worker"
)

var backfillUser string

func init() {
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().StringVar(&backfillUser, "user", "", "ID of the user whose records are exported")
	_ = backfillCmd.MarkFlagRequired("user")
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Mirror record changes into the export spreadsheet",
	Long: `Consume change events from AMQP and keep one spreadsheet row per record.
Runs until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Export every record of one user to the spreadsheet",
	Args:  cobra.NoArgs,
	RunE:  runBackfill,
}

// newExportWorker opens the store and exporter; the returned cleanup closes
// the store.
func (a *app) newExportWorker(ctx context.Context) (*worker.ExportWorker, func(), error) {
	store, err := a.openStore(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			a.logger.Error("Failed to close record store", applog.FieldError, err)
		}
	}

	exporter, err := a.newExporter(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	w := worker.NewExportWorker(store.Store, exporter, a.logger.WithComponent(applog.ComponentWorker).Logger)
	return w, cleanup, nil
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if a.cfg.AMQPURL == "" {
		return errors.New("worker requires AMQP_URL")
	}

	w, cleanup, err := a.newExportWorker(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	a.logger.Info("Starting export worker",
		"exchange", a.cfg.AMQPExchange,
		"queue", a.cfg.AMQPQueue)
	err = client.ConsumeExpenseChanges(ctx, w.HandleChange)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("Worker shutdown complete", applog.FieldOperation, applog.OpShutdown)
		return nil
	}
	return err
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	w, cleanup, err := a.newExportWorker(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := w.Backfill(ctx, backfillUser)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records for %s\n", n, backfillUser)
	return err
}
