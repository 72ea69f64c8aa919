package payrollrun

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"go-payday/internal/paycalc"
)

// PayslipRenderer writes payslip documents for a locked run. Used by the
// run-locked consumer and by the download endpoint.
type PayslipRenderer struct {
	outputDir string
}

func NewPayslipRenderer(outputDir string) *PayslipRenderer {
	if outputDir == "" {
		outputDir = "storage/payslips"
	}
	return &PayslipRenderer{outputDir: outputDir}
}

// RenderRun produces one PDF per payslip and returns the written paths.
func (r *PayslipRenderer) RenderRun(run *RunDetailResponse) ([]string, error) {
	paths := make([]string, 0, len(run.Payslips))
	for i := range run.Payslips {
		path, err := r.RenderOne(&run.RunSummaryResponse, &run.Payslips[i])
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *PayslipRenderer) RenderOne(run *RunSummaryResponse, slip *PayslipResponse) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(r.outputDir, slip.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", slip.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", run.Period))
	pdf.Ln(7)
	if run.LockDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Locked: %s", run.LockDate.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Component")
	pdf.Cell(0, 8, "Amount")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, c := range slip.Components {
		label := c.Name
		if c.Kind == paycalc.KindDeduction {
			label = label + " (deduction)"
		}
		pdf.Cell(120, 7, label)
		pdf.Cell(0, 7, fmt.Sprintf("%d", c.Amount))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %d", slip.TotalGross))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %d", slip.TotalDeductions))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %d", slip.NetPay))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
