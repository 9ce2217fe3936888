package cli

import (
	"flag"
	"fmt"
	"io"

	"saferoot/pkg/pathguard"
)

// runToken builds the handler for the token command.
func runToken(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		maxLength := flags.Int("max-length", pathguard.DefaultMaxTokenLength, "Maximum token length")
		if err := flags.Parse(args); err != nil {
			if err == flag.ErrHelp {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
			return ExitUsage
		}
		if flags.NArg() == 0 {
			fmt.Fprintln(stderr, "Missing name tokens")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		policy := pathguard.TokenPolicy{MaxLength: *maxLength}
		rejected := 0
		for _, raw := range flags.Args() {
			token, err := policy.Validate(raw)
			if err != nil {
				rejected++
				if kind, ok := pathguard.KindOf(err); ok {
					fmt.Fprintf(stdout, "REJECT %-18s %q\n", kind, raw)
					continue
				}
				fmt.Fprintf(stderr, "error validating %q: %v\n", raw, err)
				continue
			}
			fmt.Fprintf(stdout, "OK     %s\n", token)
		}
		if rejected > 0 {
			return ExitError
		}
		return ExitOK
	}
}
