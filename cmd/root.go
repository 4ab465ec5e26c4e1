package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taxlot/app"
	"taxlot/app/outfmt"
	"taxlot/date"
	"taxlot/ledger"
	"taxlot/log"
)

const (
	CsvDateFormatDefault string = "2006-01-02"
)

var ConfigFile = ""
var PeriodStartOpt = ""
var PeriodEndOpt = ""
var CsvOutputDir = ""
var RenderFullValues = false

func parseWindow() (date.Range, error) {
	end := date.Today()
	start := date.New(uint32(end.Year()), time.January, 1)

	var err error
	if PeriodStartOpt != "" {
		start, err = date.Parse(date.DefaultFormat, PeriodStartOpt)
		if err != nil {
			return date.Range{}, fmt.Errorf("Invalid --start date: %v", err)
		}
	}
	if PeriodEndOpt != "" {
		end, err = date.Parse(date.DefaultFormat, PeriodEndOpt)
		if err != nil {
			return date.Range{}, fmt.Errorf("Invalid --end date: %v", err)
		}
	}
	if end.Before(start) {
		return date.Range{}, fmt.Errorf("--end (%s) is before --start (%s)", end, start)
	}
	return date.NewRange(start, end), nil
}

func runRootCmd(cmd *cobra.Command, args []string) {
	window, err := parseWindow()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := app.DefaultConfig()
	if ConfigFile != "" {
		cfg, err = app.LoadConfig(ConfigFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	csvReaders := make([]app.DescribedReader, 0, len(args))
	files := make([]*os.File, 0, len(args))
	defer func() {
		for _, fp := range files {
			fp.Close()
		}
	}()
	for _, csvName := range args {
		fp, err := os.Open(csvName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		files = append(files, fp)
		csvReaders = append(csvReaders, app.DescribedReader{Desc: csvName, Reader: fp})
	}

	var writer outfmt.LotWriter = outfmt.NewSTDWriter(os.Stdout)
	if CsvOutputDir != "" {
		writer, err = outfmt.NewCSVWriter(CsvOutputDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	options := app.Options{Window: window, RenderFullDollarValues: RenderFullValues}
	err = app.RunTaxlotApp(
		csvReaders, cfg, options, writer, os.Stdout, &log.StderrErrorPrinter{})
	if err != nil {
		os.Exit(1)
	}
}

func cmdName() string {
	binName := os.Args[0]
	return filepath.Base(binName)
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   cmdName() + " [CSV_FILE ...]",
	Short: "FIFO cost basis calculation tool",
	Long: fmt.Sprintf(
		`A cli tool which matches security disposals against their acquisitions
under the first-in-first-out rule, and reports the cost basis, proceeds and
realized gain of each matched lot, along with per-disposal diagnostics.

Each CSV provided should contain a header with these column names:
%s

Accounts may be declared as linked (one combined history, for securities
transferred between them) in a YAML config file passed with --config.
 `, strings.Join(ledger.ColNames, ", ")),
	Run:     runRootCmd,
	Args:    cobra.MinimumNArgs(1),
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags, which are global to the app cli
	RootCmd.PersistentFlags().BoolVarP(&log.VerboseEnabled, "verbose", "v", false,
		"Print verbose output")
	RootCmd.PersistentFlags().StringVar(&ledger.CsvDateFormat, "date-fmt", CsvDateFormatDefault,
		"Format of how dates appear in the csv file. Must represent Jan 2, 2006")
	RootCmd.Flags().StringVar(&ConfigFile, "config", "",
		"YAML config file declaring linked account groups and the local currency")
	RootCmd.Flags().StringVar(&PeriodStartOpt, "start", "",
		"Start of the reporting period (YYYY-MM-DD). Defaults to Jan 1 of this year.")
	RootCmd.Flags().StringVar(&PeriodEndOpt, "end", "",
		"End of the reporting period (YYYY-MM-DD). Defaults to today.")
	RootCmd.Flags().StringVar(&CsvOutputDir, "csv-output", "",
		"Write tables as CSV files into this directory instead of printing them")
	RootCmd.Flags().BoolVar(&RenderFullValues, "print-full-values", false,
		"Print all decimal places in dollar values")
}
