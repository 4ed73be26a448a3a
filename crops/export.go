package crops

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Crops"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDateLayout  = "2006-01-02"
	exportDisposition = `attachment; filename="crops.xlsx"`
)

var exportHeader = []interface{}{
	"Name", "Variety", "Area", "Stage", "Health", "Location",
	"Planted", "Expected Harvest", "Progress (%)", "Purpose", "Notes",
}

// ExportXLSX writes one row per crop to a single-sheet workbook.
func ExportXLSX(w io.Writer, views []View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			v.Name, v.Variety, v.Area, v.GrowthStage, v.Health, v.Location,
			v.PlantedDate.Format(exportDateLayout),
			v.ExpectedHarvest.Format(exportDateLayout),
			v.Progress, v.HarvestPurpose, v.Notes,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
