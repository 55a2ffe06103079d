package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/scope/internal/ocr"
	"github.com/ironsheep/scope/internal/process"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List the OCR languages a run would use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := settings(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signalContext(cmd)
		defer stop()

		d := ocr.NewDiscoverer(process.NewExecRunner(), cfg.Tools.Recognize, cfg.OCR.FallbackLanguage, log)
		langs := d.Discover(ctx)
		for _, code := range langs.Codes() {
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(langsCmd)
}
