package invoice

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Invoice carries everything printed on a customer invoice.
type Invoice struct {
	TransactionID int64
	CustomerName  string
	MobileNumber  string
	ProductName   string
	Quantity      int64
	Amount        float64
	SaleDate      string
}

// Render writes the invoice as a single-page PDF to w.
func Render(w io.Writer, inv Invoice) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	pdf.CellFormat(200, 10, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	lines := []string{
		fmt.Sprintf("Transaction ID: %d", inv.TransactionID),
		fmt.Sprintf("Customer Name: %s", inv.CustomerName),
		fmt.Sprintf("Mobile Number: %s", inv.MobileNumber),
		fmt.Sprintf("Product Name: %s", inv.ProductName),
		fmt.Sprintf("Quantity: %d", inv.Quantity),
		fmt.Sprintf("Amount: %.2f", inv.Amount),
		fmt.Sprintf("Sale Date: %s", inv.SaleDate),
	}
	for _, line := range lines {
		pdf.CellFormat(200, 10, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}
