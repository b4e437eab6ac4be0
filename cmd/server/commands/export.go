package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/warp/resource-planner/api"
	"github.com/warp/resource-planner/generic"
)

var (
	exportCompany  string
	exportView     string
	exportMode     string
	exportOut      string
	exportScenario string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a company's resourcing grid to an xlsx workbook",
	Example: `  planner export --company=studio --view=3-months --mode=hours
  planner export --db=:memory: --scenario=leave-heavy --company=practice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportCompany == "" {
			return fmt.Errorf("--company is required")
		}

		handler, store, err := newHandler()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if exportScenario != "" {
			if err := handler.SeedScenario(ctx, exportScenario); err != nil {
				return err
			}
		}

		window := generic.ResolvePeriod(generic.ViewOption(exportView), time.Now())
		report, err := handler.Reports.Build(ctx, generic.CompanyID(exportCompany), window)
		if err != nil {
			return err
		}

		mode := report.Company.Settings.DisplayMode
		if exportMode != "" {
			mode, _ = generic.ParseDisplayMode(exportMode)
		}
		book, err := api.ExportWorkbook(report, mode)
		if err != nil {
			return err
		}
		defer book.Close()

		out := exportOut
		if out == "" {
			out = api.ExportFilename(report)
		}
		if err := book.SaveAs(out); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		log.Info().Str("file", out).Str("company", exportCompany).Int("weeks", window.WeekCount).Msg("grid exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCompany, "company", "", "company ID")
	exportCmd.Flags().StringVar(&exportView, "view", string(generic.ViewThreeMonths), "1-month, 3-months or 12-months")
	exportCmd.Flags().StringVar(&exportMode, "mode", "", "percentage or hours (default: company setting)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: grid-<company>-<start>.xlsx)")
	exportCmd.Flags().StringVar(&exportScenario, "scenario", "", "reset and seed a demo scenario first")
	rootCmd.AddCommand(exportCmd)
}
