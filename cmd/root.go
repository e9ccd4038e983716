// Package cmd wires the jex command line: flag and config resolution, input
// loading, and the hand-off into the interactive explorer.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/jex/internal/session"
	"github.com/oakwood-commons/jex/internal/ui"
	"github.com/oakwood-commons/jex/pkg/loader"
	"github.com/oakwood-commons/jex/pkg/logger"
	"github.com/oakwood-commons/jex/pkg/settings"
)

// errNoInput is returned when neither a file argument nor piped stdin is
// available.
var errNoInput = errors.New("no input provided: pass a file or pipe a document on stdin")

var (
	cliParams  = settings.NewCliParams()
	configPath string

	rootCtx = context.Background()
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "Interactive JSON/YAML/TOML explorer with a live jq filter",
	Long: `jex loads a single structured document and opens an interactive prompt
where a jq filter is evaluated continuously as you type. Tab completes
document paths and builtin functions; evaluation errors annotate the last
good result instead of replacing it. On quit the final filter is printed
so it can be reused in a shell pipeline.`,
	Example:       "\n  jex data.json\n  jex config.yaml -e '.server.ports'\n  curl -s https://api.example.com/items | jex\n  jex - < data.json\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// Config file first: it may set the log level and file, and the
		// logger configures itself exactly once.
		if path := resolveConfigPath(configPath); path != "" {
			cfg, err := loadConfigFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: config file %s: %v\n", path, err)
			} else {
				applyConfig(cliParams, cfg, cmd.Flags().Changed)
			}
		}

		lgr := logger.Get(cliParams.MinLogLevel, cliParams.LogFile)
		lgr = logger.WithValues(lgr, "command", cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
		rootCtx = settings.IntoContext(rootCtx, cliParams)
	},
	RunE: runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	log := logger.FromContext(rootCtx)

	doc, sourceName, usedStdin, err := loadInput(args)
	if err != nil {
		return err
	}
	log.Info("document loaded", "source", sourceName)

	sess := session.New(doc, session.Options{
		Debounce:        time.Duration(cliParams.DebounceMs) * time.Millisecond,
		MaxDepth:        cliParams.MaxDepth,
		MaxEntries:      cliParams.MaxEntries,
		SuggestionLimit: cliParams.SuggestionLimit,
		Logger:          log,
	})
	defer sess.Shutdown()
	sess.OnKeystroke(cliParams.InitialFilter)

	var opts []tea.ProgramOption
	if usedStdin {
		// Stdin carries the document, so keyboard input needs the terminal
		// device directly.
		tty, ttyErr := os.Open("/dev/tty")
		if ttyErr != nil {
			return fmt.Errorf("cannot open terminal for interactive input: %w", ttyErr)
		}
		defer tty.Close()
		opts = append(opts, tea.WithInput(tty))
	}

	final, err := ui.Run(sess, ui.ModelConfig{
		AppName:    settings.CliBinaryName,
		SourceName: sourceName,
		Indent:     cliParams.Indent,
		NoHint:     cliParams.NoHint,
	}, opts...)
	if err != nil {
		return fmt.Errorf("interactive display: %w", err)
	}

	// Echo the final filter for shell reuse, e.g. jq "$(jex data.json)".
	fmt.Fprintln(cmd.OutOrStdout(), final)
	return nil
}

// loadInput resolves the document source: a file argument, or stdin when the
// argument is absent or "-". A terminal on stdin with no file argument is an
// error rather than a hang.
func loadInput(args []string) (doc interface{}, sourceName string, usedStdin bool, err error) {
	if len(args) == 1 && args[0] != "-" {
		doc, err = loader.LoadFile(args[0])
		if err != nil {
			return nil, "", false, fmt.Errorf("load %s: %w", args[0], err)
		}
		return doc, filepath.Base(args[0]), false, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, "", false, errNoInput
	}
	doc, err = loader.LoadReader(os.Stdin)
	if err != nil {
		return nil, "", false, fmt.Errorf("load stdin: %w", err)
	}
	return doc, "stdin", true, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print " + settings.CliBinaryName + " version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(cliVersionString()) //nolint:forbidigo
		return nil
	},
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cliParams.InitialFilter, "expression", "e", cliParams.InitialFilter, "initial jq filter")
	f.IntVar(&cliParams.Indent, "indent", cliParams.Indent, "result indentation width")
	f.IntVar(&cliParams.MaxDepth, "max-depth", cliParams.MaxDepth, "maximum document depth indexed for completion")
	f.IntVar(&cliParams.MaxEntries, "max-entries", cliParams.MaxEntries, "maximum number of paths indexed for completion")
	f.IntVar(&cliParams.DebounceMs, "debounce-ms", cliParams.DebounceMs, "milliseconds to wait after the last keystroke before evaluating")
	f.IntVar(&cliParams.SuggestionLimit, "suggestion-limit", cliParams.SuggestionLimit, "maximum completion candidates shown")
	f.BoolVar(&cliParams.NoHint, "no-hint", false, "suppress the evaluation error hint line")
	f.Int8Var(&cliParams.MinLogLevel, "log-level", cliParams.MinLogLevel, "minimum log level (0 = info, -1 = debug)")
	f.StringVar(&cliParams.LogFile, "log-file", "", "log file path (default: "+logger.DefaultLogPath()+")")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
