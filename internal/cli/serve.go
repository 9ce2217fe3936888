package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"saferoot/internal/audit"
	"saferoot/internal/config"
	"saferoot/internal/server"
	"saferoot/internal/ui/audittail"
)

// serveDaemon is a test seam for running the content daemon.
var serveDaemon = server.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: ./saferoot.yml)")
		uiMode := flags.String("ui", "plain", "Rejection display mode: auto|live|plain")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintln(stderr, "Too many arguments")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		resolved, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Config error: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolved)
		if err != nil {
			fmt.Fprintf(stderr, "Config error:\n%s\n", err.Error())
			return ExitError
		}
		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serverCfg := server.Config{App: cfg, LogWriter: stderr}
		var controller *audittail.Controller
		if decision.useLive {
			controller = audittail.Start(stdout, audittail.Options{})
			controller.Attach(cfg.Server.ListenAddr)
			serverCfg.ExtraSinks = []audit.Sink{controller}
		} else {
			fmt.Fprintf(stdout, "Serving content at http://%s\n", cfg.Server.ListenAddr)
		}

		serveErr := serveDaemon(ctx, serverCfg)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if serveErr != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", serveErr)
			return ExitError
		}
		return ExitOK
	}
}
