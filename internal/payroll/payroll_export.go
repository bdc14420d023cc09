package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Employee ID",
	"Present Days",
	"Work Days",
	"Salary Base",
	"Overtime",
	"Bonus",
	"Penalty",
	"Allowance",
	"Advance Approved",
	"Advance Pending",
	"Gross",
	"Net",
	"Closed",
}

func buildMonthWorkbook(month, year int, snapshots []PayrollSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%04d-%02d", year, month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	var totalGross, totalNet int64
	for r, s := range snapshots {
		row := []any{
			s.EmployeeID.String(),
			s.PresentDays,
			s.WorkDaysPerMonth,
			s.SalaryBase + s.SalaryAdjustment,
			s.OvertimeAmount,
			s.BonusAmount,
			s.PenaltyAmount,
			s.AllowanceAmount,
			s.AdvanceApprovedAmount,
			s.AdvancePendingAmount,
			s.GrossAmount,
			s.NetAmount,
			s.FrozenAt != nil,
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		totalGross += s.GrossAmount
		totalNet += s.NetAmount
	}

	totalRow := len(snapshots) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTAL"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("K%d", totalRow), totalGross); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("L%d", totalRow), totalNet); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
