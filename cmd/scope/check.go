package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/process"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the required tools are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := settings(cmd)
		if err != nil {
			return err
		}

		reqs := deps.Requirements(cfg.Tools)
		missing := deps.Check(reqs, process.PathProber)
		absent := make(map[string]bool, len(missing))
		for _, m := range missing {
			absent[m.Capability] = true
		}

		out := cmd.OutOrStdout()
		for _, r := range reqs {
			status := "ok"
			if absent[r.Capability] {
				status = "MISSING"
			}
			bins := r.Binary
			if len(r.Alternatives) > 0 {
				bins += " (or " + strings.Join(r.Alternatives, ", ") + ")"
			}
			fmt.Fprintf(out, "%-8s %-14s %s\n", status, r.Capability, bins)
		}
		if !process.PathProber.Available(cfg.Tools.Notify) {
			fmt.Fprintf(out, "%-8s %-14s %s\n", "optional", "notify", cfg.Tools.Notify)
		}

		if len(missing) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, deps.Describe(missing))
			exitCode = 1
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
