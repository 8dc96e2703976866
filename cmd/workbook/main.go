// Package main provides the CLI entry point for workbook-go.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ukaji3/workbook-go/internal/config"
	"github.com/ukaji3/workbook-go/internal/logging"
	"github.com/ukaji3/workbook-go/pkg/workbook"
	"github.com/ukaji3/workbook-go/pkg/workbook/codec"
	"github.com/ukaji3/workbook-go/pkg/workbook/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code: 1 when the
// command failed or any error diagnostic was reported.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	var diagErr *workbook.Error
	if err != nil && !errors.As(err, &diagErr) {
		// Diagnostics are already logged
		fmt.Fprintln(stderr, "Error:", err)
	}
	if err != nil || a.tally.Errors > 0 {
		return 1
	}
	return 0
}

// app holds the state shared by all commands of one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg      config.Config
	tally    workbook.Tally
	pipeline *workbook.Pipeline
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "workbook",
		Short: "Import spreadsheet rows as records and export records to spreadsheets",
		Long: `workbook-go streams the rows of .xlsx and .csv files as JSON records
and writes streams of JSON records back into spreadsheet sheets.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: ~/.workbook/config.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text, json")

	root.AddCommand(a.importCmd(), a.exportCmd(), a.saveCmd(), a.sheetsCmd())
	return root
}

// setup loads the config, configures logging and creates the pipeline.
// Flags win over the config file and environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if changed(cmd.Flags(), "log-level") {
		cfg.LogLevel = a.logLevel
	}
	if changed(cmd.Flags(), "log-format") {
		cfg.LogFormat = a.logFormat
	}
	a.cfg = cfg

	a.pipeline = workbook.New(codec.Auto{}, &a.tally)
	logger := logging.WithRun(logging.Setup(a.stderr, cfg.LogLevel, cfg.LogFormat), a.pipeline.RunID)
	a.tally.Sink = workbook.NewLogSink(logger)
	return nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

type importFlags struct {
	sheet            string
	noHeaders        bool
	startCell        string
	endCell          string
	includeEmptyRows bool
	raw              bool
}

func (f *importFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.sheet, "sheet", "", "Sheet to import, matched case-insensitively (default: first sheet)")
	flags.BoolVar(&f.noHeaders, "no-headers", false, "Name columns by letter instead of using the first row")
	flags.StringVar(&f.startCell, "start-cell", "", "Top-left cell of the range (default from config, A1)")
	flags.StringVar(&f.endCell, "end-cell", "", "Bottom-right cell of the range")
	flags.BoolVar(&f.includeEmptyRows, "include-empty-rows", false, "Keep rows whose cells are all empty")
	flags.BoolVar(&f.raw, "raw", false, "Emit rows as read, without filtering")
}

func (a *app) importCmd() *cobra.Command {
	var f importFlags
	cmd := &cobra.Command{
		Use:   "import PATH...",
		Short: "Stream spreadsheet rows to stdout as JSON lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := workbook.ImportRequest{
				Paths:            args,
				Sheet:            f.sheet,
				NoHeaders:        f.noHeaders,
				StartCell:        a.cfg.StartCell,
				EndCell:          f.endCell,
				IncludeEmptyRows: a.cfg.IncludeEmptyRows,
			}
			if changed(cmd.Flags(), "start-cell") {
				req.StartCell = f.startCell
			}
			if changed(cmd.Flags(), "include-empty-rows") {
				req.IncludeEmptyRows = f.includeEmptyRows
			}

			enc := json.NewEncoder(a.stdout)
			if f.raw {
				return a.pipeline.ImportRaw(cmd.Context(), req, func(path string, rows iter.Seq2[models.Row, error]) error {
					for row, err := range rows {
						if err != nil {
							d := workbook.ClassifyError(err, workbook.Read, "", path)
							d.Source = "import"
							a.tally.Emit(d)
							return nil
						}
						if err := enc.Encode(models.RecordFromRow(row, "")); err != nil {
							return err
						}
					}
					return nil
				})
			}
			return a.pipeline.Import(cmd.Context(), req, func(rec *models.Record) error {
				return enc.Encode(rec)
			})
		},
	}
	f.register(cmd.Flags())
	_ = cmd.RegisterFlagCompletionFunc("sheet", completeSheet)
	return cmd
}

// completeSheet completes --sheet from the first path argument.
func completeSheet(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return workbook.CompleteSheetNames(codec.Auto{}, args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (a *app) exportCmd() *cobra.Command {
	var (
		input     string
		sheetName string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "export DEST",
		Short: "Write JSON records from stdin to a spreadsheet",
		Long: `Reads JSON values from stdin (or --input) and writes them to DEST.
Objects become rows; a JSON array starts a sheet of its own.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.stdin
			if input == "" && isTerminal(r) {
				return errors.New("no input: pipe JSON records to stdin or use --input")
			}
			if input != "" {
				file, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer file.Close()
				r = file
			}

			req := workbook.ExportRequest{
				Destination: args[0],
				SheetName:   a.cfg.SheetName,
				Force:       force,
			}
			if changed(cmd.Flags(), "sheet-name") {
				req.SheetName = sheetName
			}
			_, err := a.pipeline.Export(cmd.Context(), req, workbook.ReadItems(r))
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read records from this file instead of stdin")
	cmd.Flags().StringVar(&sheetName, "sheet-name", "", "Base sheet name (default from config, Sheet1)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the destination and create missing directories")
	return cmd
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) saveCmd() *cobra.Command {
	var req workbook.SaveRequest
	cmd := &cobra.Command{
		Use:   "save SRC...",
		Short: "Rewrite workbooks in place or to a destination",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Sources = args
			return a.pipeline.Save(cmd.Context(), req)
		},
	}
	cmd.Flags().StringVarP(&req.Destination, "destination", "d", "", "Save a single workbook to this path")
	cmd.Flags().BoolVarP(&req.Force, "force", "f", false, "Overwrite the destination and create missing directories")
	return cmd
}

func (a *app) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets PATH",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.pipeline.SheetNames(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}
