// Package cmd - analyze command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hospital-cost/adapters/costmodel"
	"hospital-cost/adapters/records"
	"hospital-cost/core/allocation"
	"hospital-cost/core/engine"
	"hospital-cost/core/normalize"
	"hospital-cost/core/types"
	"hospital-cost/internal/config"
	"hospital-cost/internal/errors"
	"hospital-cost/internal/logging"
)

var (
	outputFormat  string
	costModelPath string
	filterMonth   string
	filterYear    int
	filterDept    string
	filterService string
	filterPatient string
	maxWarnings   int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [data-dir]",
	Short: "Run the allocation pipeline over a record batch",
	Long: `Load revenue, expense and operational metadata records from a data
directory, allocate costs to services and report profitability.

Examples:
  hospital-cost analyze ./data --month January --year 2025
  hospital-cost analyze ./data --cost-model model.hcl --format json
  hospital-cost analyze ./data --department Cardiology --format table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
	analyzeCmd.Flags().StringVar(&costModelPath, "cost-model", "", "cost model HCL file")
	analyzeCmd.Flags().StringVar(&filterMonth, "month", "", "filter by month (name or number)")
	analyzeCmd.Flags().IntVar(&filterYear, "year", 0, "filter by year")
	analyzeCmd.Flags().StringVar(&filterDept, "department", "", "filter by department")
	analyzeCmd.Flags().StringVar(&filterService, "service", "", "filter by service name")
	analyzeCmd.Flags().StringVar(&filterPatient, "patient-type", "", "filter by patient type (OPD, IPD)")
	analyzeCmd.Flags().IntVar(&maxWarnings, "max-warnings", -1, "fail when excluded records exceed this count (-1 = unlimited)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s", dir)
	}

	runID := uuid.NewString()
	log := logging.Logger.With(zap.String("run_id", runID))
	log.Info("starting cost analysis", zap.String("dir", dir))

	raw, err := records.LoadDir(dir)
	if err != nil {
		return err
	}

	model := allocation.CostModel{}
	if costModelPath != "" {
		model, err = costmodel.Load(costModelPath)
		if err != nil {
			return err
		}
	}

	input := engine.Input{
		Filter: types.Filter{
			Month:       filterMonth,
			Year:        filterYear,
			Department:  filterDept,
			ServiceName: filterService,
			PatientType: filterPatient,
		},
		Raw:     raw,
		Model:   model,
		Options: normalize.Options{WarningTolerance: maxWarnings},
	}

	report, err := engine.New(config.Get()).Run(context.Background(), input)
	if err != nil {
		if errors.IsType(err, errors.TypeEmptyInput) {
			fmt.Println("No revenue data matched the requested filters.")
			return nil
		}
		return err
	}
	log.Info("analysis complete",
		zap.Int("services", len(report.Services)),
		zap.Int("warnings", len(report.Warnings)),
		zap.Int("assumptions", len(report.Assumptions)))

	switch outputFormat {
	case "json":
		return printJSON(report)
	default:
		return printTable(report)
	}
}

func printJSON(report *types.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printTable(report *types.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSERVICE\tDEPARTMENT\tREVENUE\tTOTAL COST\tPROFIT\tMARGIN %\tOPTIMIZATION")
	for _, s := range report.Services {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Rank, s.ServiceName, s.Department,
			s.Revenue.StringFixed(2), s.TotalCost.StringFixed(2),
			s.Profit.StringFixed(2), marginDisplay(s.MarginPercent), s.Optimization)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nServices: %d  Revenue: %s  Cost: %s  Overall margin: %s\n",
		report.Summary.TotalServices,
		report.Summary.TotalRevenue.StringFixed(2),
		report.Summary.TotalAllocatedCosts.StringFixed(2),
		marginDisplay(report.Summary.OverallProfitMargin))

	for _, a := range report.Assumptions {
		fmt.Printf("note: %s\n", a.Note)
	}
	if len(report.Warnings) > 0 {
		fmt.Printf("%d records were excluded as malformed (run with -v for details)\n", len(report.Warnings))
	}
	return nil
}

func marginDisplay(m types.Metric) string {
	if v, ok := m.Decimal(); ok {
		return v.StringFixed(1)
	}
	return "-"
}
