package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/supply"
	"github.com/abhisek/quizsupply/internal/ui/theme"
)

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Supply one question set",
	Long: `Run one supply request against the stored corpus and print the questions.

Supplied questions are remembered, so repeated calls never return the same
prompt or answer set twice until the index is reset.`,
	Example: `  quizsupply supply --grade 4 --subject maths --difficulty easy --count 10
  quizsupply supply -g 7 -s reading -d hard -n 25 --json`,
	RunE: runSupply,
}

func init() {
	addRequestFlags(supplyCmd)
	supplyCmd.Flags().StringSlice("exclude", nil, "Prompts or content signatures to leave out (repeatable)")
	supplyCmd.Flags().Uint64("seed", 0, "Random seed for a reproducible call (0 = random)")
	supplyCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = supplyCmd.MarkFlagRequired("grade")
	_ = supplyCmd.MarkFlagRequired("subject")
	_ = supplyCmd.MarkFlagRequired("difficulty")
}

func addRequestFlags(c *cobra.Command) {
	c.Flags().StringP("grade", "g", "", "Grade, 1-12")
	c.Flags().StringP("subject", "s", "", "Subject, e.g. Math, Reading, \"Thinking Skills\"")
	c.Flags().StringP("difficulty", "d", "", "easy, medium or hard")
	c.Flags().IntP("count", "n", 10, "Number of questions, 5-50")
}

func rawRequestFromFlags(cmd *cobra.Command) supply.RawRequest {
	grade, _ := cmd.Flags().GetString("grade")
	subject, _ := cmd.Flags().GetString("subject")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	return supply.RawRequest{Grade: grade, Subject: subject, Difficulty: difficulty, DesiredCount: count}
}

func runSupply(cmd *cobra.Command, args []string) error {
	raw := rawRequestFromFlags(cmd)
	raw.ExcludedContentSignatures, _ = cmd.Flags().GetStringSlice("exclude")
	raw.Seed, _ = cmd.Flags().GetUint64("seed")
	asJSON, _ := cmd.Flags().GetBool("json")

	req, err := supply.ParseRequest(raw)
	if err != nil {
		return err
	}

	eng, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	res, err := eng.supplier.Supply(cmd.Context(), req)
	if err != nil {
		var crit *supply.CriticalSupplyError
		if errors.As(err, &crit) {
			fmt.Fprintln(os.Stderr, supply.UserMessage(err))
			for _, d := range crit.Details() {
				fmt.Fprintln(os.Stderr, "  "+d)
			}
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// printResult renders a result for the terminal.
func printResult(w io.Writer, res *supply.Result) {
	c := res.Combination
	fmt.Fprintln(w, theme.Title.Render(fmt.Sprintf("Grade %d %s · %s", c.Grade, c.Subject, c.Difficulty)))
	fmt.Fprintln(w, theme.Label.Render(fmt.Sprintf("%d questions, seed %d", len(res.Questions), res.Seed)))
	fmt.Fprintln(w)

	for i, q := range res.Questions {
		fmt.Fprintf(w, "%s %s\n", theme.Selected.Render(fmt.Sprintf("%2d.", i+1)), q.Content)
		for j, opt := range q.Options {
			line := fmt.Sprintf("     %s) %s", question.OptionLabel(j), opt)
			if opt == q.CorrectAnswer {
				line = theme.Correct.Render(line)
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w, "     "+theme.Tier(q.Provenance.Tier)+theme.Label.Render(" · "+q.Provenance.Source))
		fmt.Fprintln(w)
	}

	var tiers []string
	for _, t := range res.TiersUsed() {
		tiers = append(tiers, fmt.Sprintf("%s %d", theme.Tier(string(t)), res.TierCounts[t]))
	}
	fmt.Fprintln(w, theme.Label.Render("Sources: ")+strings.Join(tiers, theme.Label.Render(", ")))

	if notice := res.Notice(); notice != "" {
		fmt.Fprintln(w, theme.Hint.Render(notice))
	}
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, theme.Warning.Render("! "+warn))
	}
}
