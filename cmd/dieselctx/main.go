// Command dieselctx opens a primary window and the configured secondary
// windows, each with its own Vulkan context, and runs until the primary
// window is closed.
package main

import (
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andewx/dieselctx"
	"github.com/andewx/dieselctx/driver/vulkan"
	"github.com/andewx/dieselctx/platform/glfwwin"
)

func init() {
	// glfw and the event loop must stay on the main thread.
	runtime.LockOSThread()
}

type options struct {
	config        string
	diagnostics   bool
	noDiagnostics bool
	verbose       bool
	veryVerbose   bool
	quiet         bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "dieselctx",
		Short:        "Open Vulkan windows and contexts",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			level := cfg.Level()
			if opts.veryVerbose || opts.verbose || opts.quiet {
				level = dieselctx.LevelFromFlags(opts.veryVerbose, opts.verbose, opts.quiet)
			}
			log := dieselctx.NewLogger(cmd.ErrOrStderr(), level)
			slog.SetDefault(log)
			return run(cfg, log)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "TOML configuration file")
	flags.BoolVar(&opts.diagnostics, "diagnostics", false, "enable the validation layer and debug messenger")
	flags.BoolVar(&opts.noDiagnostics, "no-diagnostics", false, "disable the validation layer and debug messenger")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&opts.veryVerbose, "vv", false, "log at trace level")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")
	cmd.MarkFlagsMutuallyExclusive("diagnostics", "no-diagnostics")
	cmd.MarkFlagsMutuallyExclusive("verbose", "vv", "quiet")
	return cmd
}

func loadConfig(opts options) (dieselctx.Config, error) {
	cfg := dieselctx.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = dieselctx.LoadConfig(opts.config); err != nil {
			return cfg, err
		}
	}
	switch {
	case opts.diagnostics:
		cfg.Diagnostics = true
	case opts.noDiagnostics:
		cfg.Diagnostics = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func run(cfg dieselctx.Config, log *slog.Logger) error {
	sys, err := glfwwin.Init()
	if err != nil {
		return err
	}
	defer sys.Terminate()

	app := dieselctx.NewApp(sys, cfg, vulkan.NewLoader(sys.VulkanProcAddr), log)
	if err := app.Resumed(); err != nil {
		log.Error("could not start", "err", err)
		return err
	}
	defer app.Suspended()

	for !app.ShouldExit() {
		sys.WaitEvents(100*time.Millisecond, app.WindowEvent)
	}
	return nil
}
