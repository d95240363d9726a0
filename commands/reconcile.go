package commands

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/ordersight/ordersight/internal/core/reconcile"
	"github.com/ordersight/ordersight/internal/core/store"
)

var (
	stateOut string

	reconcileCmd = &cobra.Command{
		Use:   "reconcile [flags]",
		Short: "Manually link orphan events to order threads",
		Long: `reconcile builds the timeline from the given imports, then reads
commands from stdin to fix records the glue file could not link:
search order threads, link an orphan event to one, or promote an
orphan into a brand-new order. Type 'help' for the command list.

Examples:
  ordersight reconcile --dir ./exports
  ordersight reconcile -s sales.csv -p purchases.csv -g glue.csv --state-out fixed.json
  echo 'link sales-403-1.. NEW-1' | ordersight reconcile --dir ./exports`,
		RunE: runReconcile,
	}
)

func init() {
	reconcileCmd.Flags().StringVar(&stateOut, "state-out", "",
		"Write the final timeline state to this file as JSON")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	initLogging()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	state, err := p.Build()
	if err != nil {
		return err
	}

	timelineStore := store.New()
	timelineStore.SetTimeline(state)

	workflow := reconcile.NewWorkflow(timelineStore)
	session := reconcile.NewSession(workflow, os.Stdout)

	fmt.Printf("Timeline built: %d orders, %d orphans. Type 'help' for commands.\n",
		len(state.ByOrder), len(state.Orphans))

	if err := session.Run(os.Stdin); err != nil {
		return err
	}

	if stateOut != "" {
		data, err := sonic.MarshalIndent(timelineStore.Snapshot(), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(expandPath(stateOut), data, 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote timeline state to %s\n", stateOut)
	}
	return nil
}
