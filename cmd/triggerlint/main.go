package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// errViolations makes check exit with 1 rather than 2.
var errViolations = errors.New("execution trigger contract violations found")

type options struct {
	configPath   string
	verbose      bool
	format       string
	out          string
	includeTests bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "triggerlint",
		Short:         "Check that declared use cases expose exactly one execution trigger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logs to stderr")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default "+defaultConfigFile+" if present)")

	root.AddCommand(newCheckCmd(opts, stdout, stderr))
	return root
}

func newCheckCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir|dir/...]...",
		Short: "Statically check use-case types against the execution trigger contract",
		Long: `Check parses Go sources and finds every struct passed as the type argument
of di.Declare or di.MustDeclare, plus any type listed under "types" in the
config file. Each one must declare exactly one exported method, Execute or
Call, and no other exported method. Methods promoted from embedded fields
are not counted.

Directories ending in /... are scanned recursively. The default is ".".
Exit status is 0 when every class passes, 1 on violations and 2 on errors.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args, stdout, stderr)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.includeTests, "include-tests", false, "Also scan _test.go files")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer) error {
	log := newLogger(stderr, opts.verbose)

	configPath, explicit := opts.configPath, opts.configPath != ""
	if !explicit {
		configPath = defaultConfigFile
	}
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = opts.format
	}
	if cmd.Flags().Changed("include-tests") {
		cfg.IncludeTests = opts.includeTests
	}
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	s := newScanner(cfg, log)
	dirs, err := s.expand(args)
	if err != nil {
		return err
	}

	findings, err := s.scan(dirs)
	if err != nil {
		return err
	}

	report := newReport(findings)
	data, err := report.render(cfg.Format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if opts.out != "" {
		if err := writeFileAtomic(opts.out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report %s: %w", opts.out, err)
		}
		log.Info().Str("path", opts.out).Msg("report written")
	} else if _, err := stdout.Write(data); err != nil {
		return err
	}

	log.Debug().Int("dirs", len(dirs)).Int("classes", len(report.Classes)).Int("violations", report.Violations).Msg("check finished")
	if report.Violations > 0 {
		return errViolations
	}
	return nil
}

// run executes the command line and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if errors.Is(err, errViolations) {
			return 1
		}
		_, _ = fmt.Fprintln(stderr, "triggerlint:", err)
		return 2
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
