package reward

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
)

// GenerateStatementPDF renders an employee's bonus/penalty records for one
// period into a PDF under dir and returns the file path.
func (s *Service) GenerateStatementPDF(ctx context.Context, employeeID, period, dir, currency string) (string, error) {
	data, err := s.Store.StatementData(ctx, employeeID, period)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrRecordNotFound
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, fmt.Sprintf("%s-%s.pdf", employeeID, period))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Bonus / Penalty Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", data.FirstName, data.LastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", data.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Role: %s", data.RoleCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period))
	pdf.Ln(10)

	var net float64
	for _, rec := range data.Records {
		amount := rec.Amount
		if rec.Type == TypePenalty {
			amount = -amount
		}
		net += amount
		pdf.Cell(0, 8, fmt.Sprintf("%s: %.2f %s (%s)", rec.Type, amount, currency, rec.Reason))
		pdf.Ln(7)
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f %s", net, currency))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
