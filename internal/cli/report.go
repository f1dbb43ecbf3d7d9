package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

var (
	reportUser   string
	reportWindow string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportUser, "user", "", "ID of the user to report on")
	reportCmd.Flags().StringVar(&reportWindow, "window", string(core.DefaultWindow),
		"Time range: "+strings.Join(windowNames(), ", "))
	_ = reportCmd.MarkFlagRequired("user")
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a spending report for one user",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func windowNames() []string {
	var names []string
	for _, w := range core.Windows() {
		names = append(names, string(w))
	}
	return names
}

func runReport(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(windowNames(), reportWindow) {
		return fmt.Errorf("unknown window %q (want one of %s)", reportWindow, strings.Join(windowNames(), ", "))
	}

	ctx := cmd.Context()
	a, err := bootstrap(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewExpenseService(store.Store, nil, a.logger.WithComponent(applog.ComponentAnalytics).Logger)
	res := svc.ListForUser(ctx, reportUser)
	if !res.Success {
		return errors.New(res.Error)
	}

	view := analytics.NewView(res.Data, time.Now)
	return analytics.WriteText(cmd.OutOrStdout(), view.SetWindow(core.Window(reportWindow)))
}
