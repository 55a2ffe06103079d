package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/scope/internal/artifact"
	"github.com/ironsheep/scope/internal/config"
	"github.com/ironsheep/scope/internal/desktop"
	"github.com/ironsheep/scope/internal/logging"
	"github.com/ironsheep/scope/internal/pipeline"
	"github.com/ironsheep/scope/internal/present"
	"github.com/ironsheep/scope/internal/process"
)

var rootCmd = &cobra.Command{
	Use:   "scope",
	Short: "Capture a screen region and print the text in it",
	Long: `scope lets you drag a rectangle on screen, captures it, runs OCR over the
image and prints the recognized text. The text is also copied to the clipboard.

Requires slop, maim, tesseract and xclip. Run "scope check" to verify them.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScope,
}

// exitCode is set by commands that finish without an error but must still
// exit non-zero.
var exitCode int

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return exitCode
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/scope/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-step timeout for non-interactive tools, 0 disables (overrides config)")

	rootCmd.Flags().Bool("no-copy", false, "Do not copy the recognized text to the clipboard")
	rootCmd.Flags().Bool("json", false, "Print the run result as JSON")
	rootCmd.Flags().Bool("enhance", false, "Preprocess the capture before OCR (grayscale, upscale, invert dark themes)")
}

// settings loads the config and applies command-line overrides.
func settings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if cmd.Flags().Changed("timeout") {
		cfg.StepTimeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if f := cmd.Flags().Lookup("enhance"); f != nil && f.Changed {
		cfg.OCR.Enhance.Enabled, _ = cmd.Flags().GetBool("enhance")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(level), nil
}

// signalContext cancels on Ctrl-C or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runScope(cmd *cobra.Command, _ []string) error {
	cfg, log, err := settings(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	log.Debug("scope starting", "version", Version, "commit", GitCommit, "artifact", cfg.Artifact)

	runner := process.NewExecRunner()
	p, err := pipeline.FromConfig(cfg, runner, process.PathProber, artifact.NewStore(cfg.Artifact), log)
	if err != nil {
		return err
	}
	res := p.Run(ctx)

	noCopy, _ := cmd.Flags().GetBool("no-copy")
	asJSON, _ := cmd.Flags().GetBool("json")
	presenter := &present.Presenter{
		Out:       cmd.OutOrStdout(),
		Notifier:  desktop.NewSendNotifier(runner, cfg.Tools.Notify, cfg.AppName, cfg.StepTimeout, log),
		Clipboard: desktop.SystemClipboard{},
		JSON:      asJSON,
		Copy:      !noCopy,
		Log:       log,
	}
	// Notifications must still go out after Ctrl-C aborted the selection.
	exitCode = presenter.Present(context.WithoutCancel(ctx), res)
	return nil
}
