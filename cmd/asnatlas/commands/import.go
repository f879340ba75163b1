package commands

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"asnatlas/lib/serviceutil"
	"asnatlas/services/analyzer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	importFile   *string
	importColumn *string
	importInput  *string
)

func init() {
	importFile = importCmd.Flags().String("file", "", "CSV or Excel file to import ASNs from.")
	importColumn = importCmd.Flags().String("column", "", "Column name or 1-based number holding the ASNs; prompted for when omitted.")
	importInput = importCmd.Flags().String("input", "", "Input file to merge into, overrides config.")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import --file <path.csv|path.xlsx> [--column <name|number>]",
	Short: "Imports a spreadsheet column of ASNs into the input file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		tbl, err := analyzer.LoadTable(*importFile)
		if err != nil {
			serviceutil.Fatal("failed to load spreadsheet", err)
		}
		printPreview(tbl)

		selector := *importColumn
		if selector == "" {
			selector = promptColumn()
		}
		column, err := tbl.ResolveColumn(selector)
		if err != nil {
			serviceutil.Fatal("failed to resolve column", err)
		}

		asns, invalid := tbl.ExtractASNs(column)
		if invalid > 0 {
			slog.Warn("skipped invalid spreadsheet entries", "count", invalid)
		}
		if len(asns) == 0 {
			slog.Warn("no valid ASNs found in the selected column")
			return
		}

		inputFile := cfg.InputFile
		if *importInput != "" {
			inputFile = *importInput
		}
		merged, err := analyzer.MergeIntoInputFile(asns, inputFile)
		if err != nil {
			serviceutil.Fatal("failed to update input file", err)
		}

		slog.Info(
			"import complete",
			"from_spreadsheet", len(asns),
			"total", len(merged),
			"input_file", inputFile,
		)
	},
}

// header row plus the first few data rows, enough to pick a column
func printPreview(tbl *analyzer.Table) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)

	header := make(table.Row, len(tbl.Headers))
	for i, h := range tbl.Headers {
		header[i] = fmt.Sprintf("%d. %s", i+1, h)
	}
	t.AppendHeader(header)

	for i, row := range tbl.Rows {
		if i == 3 {
			break
		}
		cells := make(table.Row, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		t.AppendRow(cells)
	}
	t.Render()
	fmt.Printf("%d rows, %d columns\n", len(tbl.Rows), len(tbl.Headers))
}

func promptColumn() string {
	fmt.Print("Enter the column name or number containing ASNs: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		serviceutil.Fatal("failed to read column selection", fmt.Errorf("stdin closed"))
	}
	return strings.TrimSpace(scanner.Text())
}
