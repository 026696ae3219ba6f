package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tester/internal/config"
	"tester/internal/logger"
	"tester/internal/report"
	"tester/internal/util"
)

// errUsage is returned after the usage message has been printed.
var errUsage = stderrors.New("wrong number of arguments")

var (
	configPath  string
	interpreter string
	suffix      string
	inExt       string
	outExt      string
	timeout     time.Duration
	encoding    string
	noColor     bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "tester <program> <answers-dir>",
	Short: "tester runs a program against every .in/.out pair in a directory",
	Long: `tester runs <program> once for every <name>.in file in <answers-dir>,
feeding the file to the program's standard input, and checks each line the
program prints against <name>.out.

A printed line is correct when it appears anywhere in the expected output;
order and repetition are not checked. Anything written to standard error
marks the test as an execution error.`,
	// SilenceErrors is used to prevent cobra from printing the error,
	// as we handle it ourselves in the Execute function.
	SilenceErrors: true,
	SilenceUsage:  true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			printUsage(cmd)
			return errUsage
		}
		return nil
	},
	RunE: runTests,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "YAML config file (default $"+config.ConfigEnvVar+")")
	flags.StringVar(&interpreter, "interpreter", config.DefaultInterpreter, "command used to run the program; empty runs it directly")
	flags.StringVar(&suffix, "suffix", config.DefaultProgramSuffix, "suffix appended to the program name when missing")
	flags.StringVar(&inExt, "in-ext", config.DefaultInputSuffix, "suffix of input files")
	flags.StringVar(&outExt, "out-ext", config.DefaultOutputSuffix, "suffix of expected output files")
	flags.DurationVar(&timeout, "timeout", 0, "time limit per test, e.g. 2s (0 waits forever)")
	flags.StringVar(&encoding, "encoding", config.DefaultEncoding, "encoding of the program output: latin1 or utf-8")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}

func printUsage(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	color.New(color.FgYellow).Fprintln(w, "To use this program, type the command as follows:")
	fmt.Fprintf(w, "%s %s\n", filepath.Base(os.Args[0]), color.CyanString("<program> <answers-dir>"))
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.LoadDefault(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("interpreter") {
		cfg.Interpreter = interpreter
	}
	if flags.Changed("suffix") {
		cfg.ProgramSuffix = suffix
	}
	if flags.Changed("in-ext") {
		cfg.InputSuffix = inExt
	}
	if flags.Changed("out-ext") {
		cfg.OutputSuffix = outExt
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encoding
	}
	if flags.Changed("no-color") {
		cfg.NoColor = noColor
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg.Program = cfg.ProgramPath(args[0])
	cfg.AnswersDir = args[1]

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTests(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	log := logger.NewWithWriter(cfg.Verbose, cmd.ErrOrStderr())
	defer log.Sync()

	if err := util.VerifyPaths(cfg.Program, cfg.AnswersDir); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return runSuite(cmd.Context(), cfg, report.New(out), report.NewProgress(out), log)
}

// Execute runs the root command and exits with status 1 on any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !stderrors.Is(err, errUsage) {
			report.New(os.Stdout).Error(err)
		}
		stop()
		os.Exit(1)
	}
}
