package cli

import (
	"flag"
	"fmt"
	"io"

	"saferoot/pkg/pathguard"
)

// runCheck builds the handler for the check command. It resolves each
// candidate against the root and reports the outcome per candidate, so
// operators can test stored paths before trusting them.
func runCheck(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		rootDir := flags.String("root", "", "Root directory candidates must stay under")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			return ExitUsage
		}
		if *rootDir == "" {
			fmt.Fprintln(stderr, "Missing --root")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() == 0 {
			fmt.Fprintln(stderr, "Missing candidate paths")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		root, err := pathguard.New(pathguard.Config{Dir: *rootDir})
		if err != nil {
			fmt.Fprintf(stderr, "Root error: %v\n", err)
			return ExitError
		}

		rejected := 0
		for _, candidate := range flags.Args() {
			resolved, err := root.Resolve(candidate)
			if err != nil {
				rejected++
				if kind, ok := pathguard.KindOf(err); ok {
					fmt.Fprintf(stdout, "REJECT %-18s %q\n", kind, candidate)
					continue
				}
				fmt.Fprintf(stderr, "error resolving %q: %v\n", candidate, err)
				continue
			}
			fmt.Fprintf(stdout, "OK     %s\n", resolved.Path())
		}
		if rejected > 0 {
			return ExitError
		}
		return ExitOK
	}
}
