package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"supportbot/internal/adapter/httpapi"
	"supportbot/internal/adapter/orders"
)

var ordersAddr string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Serve the mock order status service",
	Long: `Serve GET /order_status/{order_id} from the mock orders in the config.
Point orders.base_url at this service and set orders.mode to http to
exercise the HTTP lookup path.

Examples:
  supportbot orders
  supportbot orders --addr 127.0.0.1:5000`,
	RunE: runOrders,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.Flags().StringVar(&ordersAddr, "addr", "", "listen address (default from config)")
}

func runOrders(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	addr := cfg.Server.OrdersAddr
	if ordersAddr != "" {
		addr = ordersAddr
	}

	lookup := orders.NewMemoryLookup(orders.FromConfig(cfg.Orders.Mock))
	logger.Info("mock orders loaded", zap.Int("orders", lookup.Len()))

	return listenAndServe(cmd.Context(), addr, httpapi.NewOrdersRouter(lookup, logger), "orders")
}
