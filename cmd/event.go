package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/budget-tracker/internal/core/events"
	"github.com/frahmantamala/budget-tracker/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Inspect and exercise the audit event bus",
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the audit event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AuditEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test audit event through the audit log handler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd, args[0])
	},
}

var (
	eventUserID int64
	eventData   string
)

func publishTestEvent(cmd *cobra.Command, eventType string) error {
	if !slices.Contains(events.AuditEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q (one of: %s)", eventType, strings.Join(events.AuditEventTypes, ", "))
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg)

	event := events.NewUserEvent(eventType, eventUserID, map[string]interface{}{
		"message": eventData,
		"source":  "cli",
	})
	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	return bus.PublishSync(cmd.Context(), event)
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "message attached to the payload")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
