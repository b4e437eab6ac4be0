package api

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/warp/resource-planner/generic"
)

const (
	gridSheet    = "Grid"
	summarySheet = "Summary"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// zoneFills colours grid cells by utilization zone.
var zoneFills = map[generic.Zone]string{
	generic.ZoneNeedsAttention: "#FDE68A",
	generic.ZoneAvailable:      "#BFDBFE",
	generic.ZoneAtCapacity:     "#BBF7D0",
	generic.ZoneOverAllocated:  "#FECACA",
}

// ExportWorkbook writes a report as a workbook: the member x week grid in
// mode, and a per-member summary sheet.
func ExportWorkbook(r *Report, mode generic.DisplayMode) (*excelize.File, error) {
	grid := r.Grid(mode)
	dash := r.Dashboard()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	zoneStyles := make(map[string]int, len(zoneFills))
	for zone, colour := range zoneFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{colour}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		zoneStyles[string(zone)] = id
	}

	// Grid: Member | Capacity | week... | Total
	headers := []any{"Member", "Capacity"}
	for _, w := range grid.Period.Weeks {
		headers = append(headers, w)
	}
	headers = append(headers, "Total")
	if err := f.SetSheetRow(gridSheet, "A1", &headers); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(gridSheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	for i, row := range grid.Rows {
		line := []any{displayName(row.Name, row.MemberID), row.Capacity}
		for _, c := range row.Cells {
			line = append(line, c.Value)
		}
		line = append(line, row.Total)
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(gridSheet, start, &line); err != nil {
			return nil, err
		}
		for j, c := range row.Cells {
			style, ok := zoneStyles[c.Zone]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+3, i+2)
			if err := f.SetCellStyle(gridSheet, cell, cell, style); err != nil {
				return nil, err
			}
		}
	}

	totals := []any{"Total", ""}
	for _, v := range grid.WeekTotals {
		totals = append(totals, v)
	}
	totals = append(totals, dash.TotalHours)
	totalRow := len(grid.Rows) + 2
	start, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(gridSheet, start, &totals); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(gridSheet, totalRow, totalRow, headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(gridSheet, "A", "A", 28); err != nil {
		return nil, err
	}

	// Summary
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	summary := [][]any{{"Member", "Capacity", "Allocated", "Leave", "Utilization", "Zone"}}
	for _, m := range dash.Members {
		summary = append(summary, []any{
			displayName(m.Name, m.MemberID), m.Capacity, m.Allocated, m.Leave,
			fmt.Sprintf("%.1f%%", m.Utilization*100), m.Zone,
		})
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return nil, err
	}

	return f, nil
}

// ExportFilename names a report's workbook.
func ExportFilename(r *Report) string {
	return fmt.Sprintf("grid-%s-%s.xlsx", r.Company.ID, r.Window.Start)
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
