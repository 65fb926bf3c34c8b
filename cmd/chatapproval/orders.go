package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/chatapproval"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/progress"
	tmemory "github.com/viant/chatapproval/service/transport/memory"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List active orders from the configured store",
		RunE:  runOrders,
	}
	cmd.Flags().StringP("recipient", "r", "", "only orders addressed to recipient")
	cmd.Flags().BoolP("json", "j", false, "output as JSON")
	return cmd
}

func runOrders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Tracing.Enabled = false
	ctx := cmd.Context()
	srv, err := chatapproval.New(ctx, chatapproval.WithConfig(cfg), chatapproval.WithTransport(tmemory.New()))
	if err != nil {
		return err
	}
	if err = srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Shutdown(ctx)

	recipient, _ := cmd.Flags().GetString("recipient")
	orders, err := srv.Orders(ctx, recipient)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(orders)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tPROGRESS\tRESPONSES")
	for _, anOrder := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", anOrder.ID, anOrder.Status, anOrder.CreatedAt.Format("2006-01-02 15:04:05"), progress.Of(anOrder), responses(anOrder))
	}
	return w.Flush()
}

func responses(anOrder *model.Order) string {
	keys := make([]string, 0, len(anOrder.Recipients))
	for key := range anOrder.Recipients {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		state := model.StateUnanswered
		if response := anOrder.Recipients[key]; response != nil && response.State != "" {
			state = response.State
		}
		parts = append(parts, key+"="+string(state))
	}
	return strings.Join(parts, ",")
}
