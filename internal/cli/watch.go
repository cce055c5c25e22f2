package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-manager/internal/config"
	"github.com/BruksfildServices01/studio-manager/internal/events"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		redisURL string
		channel  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the change notifications published by the API",
		Long: `Subscribe to the Redis channel the API publishes on and print one line
per change until interrupted. The URL defaults to REDIS_URL.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL == "" {
				redisURL = config.Load().RedisURL
			}
			if redisURL == "" {
				return fmt.Errorf("no redis url: pass --redis or set REDIS_URL")
			}

			sub, err := events.NewRedis(redisURL, channel)
			if err != nil {
				return err
			}
			defer sub.Close()

			ch, err := sub.Subscribe(cmd.Context())
			if err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			for ev := range ch {
				if err := writeEvent(cmd.OutOrStdout(), rootOpts.Format, ev); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis", "", "redis url, default REDIS_URL")
	cmd.Flags().StringVar(&channel, "channel", events.DefaultChannel, "pub/sub channel")
	return cmd
}

func writeEvent(w io.Writer, format string, ev events.Event) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(ev)
	}

	line := fmt.Sprintf("%s %s %s", ev.At.UTC().Format(time.RFC3339), ev.Type, ev.Collection)
	if ev.ID != "" {
		line += " " + ev.ID
	}
	if ev.Status != "" {
		line += " -> " + ev.Status
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
