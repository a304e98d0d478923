package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/store"
	"github.com/abhisek/quizsupply/internal/supply"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded supply calls",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent supply calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		outcome, _ := cmd.Flags().GetString("outcome")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().ListSupply(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if outcome != "" {
			filtered := events[:0]
			for _, e := range events {
				if e.Outcome == outcome {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
		if limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}

		if len(events) == 0 {
			fmt.Println("No supply events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-34s  %7s  %-8s  %6s  %s\n",
			"Seq", "Timestamp", "Request", "Got", "Outcome", "Ms", "Tiers")
		fmt.Println(strings.Repeat("─", 110))
		for _, e := range events {
			req := fmt.Sprintf("grade %d %s %s", e.Grade, e.Subject, e.Difficulty)
			fmt.Printf("%-6d  %-19s  %-34s  %3d/%-3d  %-8s  %6d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(req, 34),
				e.Delivered, e.DesiredCount,
				e.Outcome,
				e.LatencyMs,
				formatTierCounts(e.TierCounts),
			)
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize outcomes and tier usage across supply calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().ListSupply(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No supply calls recorded yet.")
			return nil
		}

		outcomes := map[string]int{}
		tiers := map[string]int{}
		var delivered int
		var latency int64
		for _, e := range events {
			outcomes[e.Outcome]++
			delivered += e.Delivered
			latency += e.LatencyMs
			for t, n := range e.TierCounts {
				tiers[t] += n
			}
		}

		fmt.Println("Outcomes")
		fmt.Println(strings.Repeat("─", 40))
		for _, o := range []string{supply.OutcomeOK, supply.OutcomePartial, supply.OutcomeCritical, supply.OutcomeInvalid, supply.OutcomeError} {
			if outcomes[o] > 0 {
				fmt.Printf("%-12s  %8d  %6.1f%%\n", o, outcomes[o], 100*float64(outcomes[o])/float64(len(events)))
			}
		}
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-12s  %8d   avg %dms\n", "TOTAL", len(events), latency/int64(len(events)))

		fmt.Println()
		fmt.Println("Questions by tier")
		fmt.Println(strings.Repeat("─", 40))
		for _, t := range supply.AllTiers {
			if n := tiers[string(t)]; n > 0 {
				fmt.Printf("%-22s  %8d  %6.1f%%\n", t, n, 100*float64(n)/float64(delivered))
			}
		}
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-22s  %8d\n", "TOTAL", delivered)
		return nil
	},
}

func formatTierCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return supply.Tier(keys[i]).Rank() < supply.Tier(keys[j]).Rank()
	})
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("outcome", "o", "", "Filter by outcome (ok, partial, critical, invalid, error)")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
