package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YunseobShin/wall-street/internal/briefing"
	"github.com/YunseobShin/wall-street/internal/dispatch"
	"github.com/YunseobShin/wall-street/internal/models"
)

// --- trending ---

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show today's trending stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if limit == 0 {
			limit = a.cfg.Trending.Limit
		}
		snap, err := a.feed.Trending(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if snap.Fallback {
			printWarning("briefing API unavailable, showing built-in screener data")
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), snap)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Trending stocks for %s (%s)\n", snap.Date, snap.Timezone)
		for i, s := range snap.Items {
			fmt.Fprintf(out, "%2d. %-6s score %5.1f  %s%%  vol %d  [%s]\n",
				i+1, s.Symbol, s.Score, s.ChangePercent.StringFixed(2), s.Volume, joinSources(s.SourceTags))
		}
		printStatus(out, "Top pick", "%s (%s)", snap.Top1.Symbol, snap.Top1.SelectedReason)
		return nil
	},
}

func init() {
	trendingCmd.Flags().Int("limit", 0, "number of stocks to show (default from config)")
	trendingCmd.Flags().Bool("json", false, "print JSON")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored briefings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		items := a.store.Load(cmd.Context())
		if asJSON {
			return printJSON(cmd.OutOrStdout(), items)
		}
		out := cmd.OutOrStdout()
		for _, b := range items {
			fmt.Fprintf(out, "%-28s %s  %-6s %-6s %s\n", b.ID, b.Date, b.Status, b.Top1Symbol, b.Title)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "print JSON")
}

// --- create ---

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new briefing via the briefing API",
	Long: `Generate a new briefing via the briefing API.

With --fallback, a local placeholder built from the current top trending
stock is stored when the API cannot generate one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fallback, _ := cmd.Flags().GetBool("fallback")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		b, err := a.manager.Create(cmd.Context())
		if err != nil {
			if !fallback || !briefing.IsGenerationUnavailable(err) {
				return err
			}
			printWarning("%v", err)

			snap, ferr := a.feed.Trending(cmd.Context(), a.cfg.Trending.Limit)
			if ferr != nil {
				return ferr
			}
			placeholder := briefing.Placeholder(snap.Top1, a.now())
			a.store.Upsert(cmd.Context(), placeholder)
			b = &placeholder
		}

		printSuccess("Briefing %s created: %s (%s)", b.ID, b.Date, b.Top1Symbol)
		printStatus(cmd.OutOrStdout(), "Title", "%s", b.Title)
		return nil
	},
}

func init() {
	createCmd.Flags().Bool("fallback", false, "store a local placeholder if generation is unavailable")
}

// --- regenerate ---

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <id>",
	Short: "Regenerate an existing briefing",
	Args:  exactArgs(1, "briefing id"),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		existing, err := a.manager.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		b, err := a.manager.Regenerate(cmd.Context(), *existing)
		if err != nil {
			return err
		}
		printSuccess("Briefing %s regenerated", b.ID)
		printStatus(cmd.OutOrStdout(), "Title", "%s", b.Title)
		return nil
	},
}

// --- send ---

var sendCmd = &cobra.Command{
	Use:   "send <id>",
	Short: "Send a briefing over a channel",
	Long: `Send a briefing over a channel.

Examples:
  briefing send seed-2025-01-17-NVDA --channel email --to you@example.com
  briefing send seed-2025-01-17-NVDA --channel chat --to "#markets"`,
	Args: exactArgs(1, "briefing id"),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, _ := cmd.Flags().GetString("channel")
		to, _ := cmd.Flags().GetString("to")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		b, err := a.manager.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		result, err := a.tracker.Dispatch(cmd.Context(), b.ID, models.Channel(channel), dispatch.Payload{
			Recipient: to,
			Subject:   b.Title,
			Text:      b.SummaryText,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printStatus(out, "Dispatch", "%s", result.ID)
		printStatus(out, "Status", "%s", result.Status)
		printStatus(out, "Message", "%s", result.Message)
		if result.Status != models.DispatchStatusSent {
			return fmt.Errorf("dispatch failed: %s", result.Message)
		}
		printSuccess("Briefing %s sent via %s", b.ID, channel)
		return nil
	},
}

func init() {
	sendCmd.Flags().String("channel", string(models.ChannelEmail), "delivery channel (email|chat)")
	sendCmd.Flags().String("to", "", "recipient email address or chat room")
}

// --- subscribe / unsubscribe ---

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <email>",
	Short: "Subscribe an email address to the daily briefing",
	Args:  exactArgs(1, "email"),
	RunE: func(cmd *cobra.Command, args []string) error {
		sendTime, _ := cmd.Flags().GetString("time")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		sub, err := a.subscriptions.Subscribe(cmd.Context(), args[0], sendTime)
		if err != nil {
			return err
		}
		printSuccess("Subscribed %s at %s KST", sub.Email, sub.SendTimeKST)
		return nil
	},
}

func init() {
	subscribeCmd.Flags().String("time", models.DefaultSendTimeKST, "delivery time in KST (HH:MM)")
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <email>",
	Short: "Stop the daily briefing for an email address",
	Args:  exactArgs(1, "email"),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.subscriptions.Unsubscribe(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSuccess("Unsubscribed %s", args[0])
		return nil
	},
}

func joinSources(tags []models.ScreenerSource) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
