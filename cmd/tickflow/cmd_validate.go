package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/tickflow/pkg/score"
)

var validateCmd = &cobra.Command{
	Use:   "validate <score.yaml>",
	Short: "Check a score file without playing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	sc, err := score.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d cues, duration %gs\n", args[0], len(sc.Cues), sc.Duration())
	for _, cue := range sc.Cues {
		kind := cue.Kind
		if kind == "" {
			kind = score.KindOnce
		}
		fmt.Fprintf(out, "  %-20s %-6s at=%g", cue.Name, kind, cue.At)
		switch kind {
		case score.KindRepeat:
			fmt.Fprintf(out, " every_hz=%g until=%s", cue.EveryHz, untilText(cue))
		case score.KindCron:
			fmt.Fprintf(out, " cron=%q until=%s", cue.Cron, untilText(cue))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func untilText(cue score.Cue) string {
	if end, ok := cue.End(); ok {
		return strconv.FormatFloat(end, 'g', -1, 64)
	}
	return "never"
}
