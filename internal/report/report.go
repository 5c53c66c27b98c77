// Package report renders the admin product report and sale receipts as
// PDF, plus the inventory figures shown next to them.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/cinema-pos/internal/cart"
	"github.com/iliyamo/cinema-pos/internal/model"
	"github.com/iliyamo/cinema-pos/internal/repository"
)

const brand = "CineX"

// brandRed is the header colour of report tables.
var brandRed = [3]int{220, 20, 60}

// InventoryTotals summarizes stock on hand.
type InventoryTotals struct {
	Products        int   `json:"products"`
	Units           int   `json:"units"`
	StockValueCents int64 `json:"stockValueCents"`
}

func Inventory(products []model.Product) InventoryTotals {
	var t InventoryTotals
	for _, p := range products {
		t.Products++
		t.Units += p.Stock
		t.StockValueCents += p.PriceCents * int64(p.Stock)
	}
	return t
}

func header(pdf *gofpdf.Fpdf, title string, generated time.Time) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(brandRed[0], brandRed[1], brandRed[2])
	pdf.Cell(0, 10, brand)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, tr(pdf, title))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, "Generado: "+generated.Format("02/01/2006"))
	pdf.Ln(10)
	pdf.SetTextColor(0, 0, 0)
}

// tr converts UTF-8 to the cp1252 encoding of the core fonts.
func tr(pdf *gofpdf.Fpdf, s string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")(s)
}

// ProductsPDF renders the product table: SKU, name, category, price and
// stock, striped, one row per product.
func ProductsPDF(products []model.Product, categories []model.Category, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reporte de Productos", true)
	pdf.AddPage()
	header(pdf, "Reporte de Productos", generated)

	widths := []float64{25, 75, 35, 25, 20}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(brandRed[0], brandRed[1], brandRed[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"SKU", "Nombre", "Categoría", "Precio", "Stock"} {
		pdf.CellFormat(widths[i], 7, tr(pdf, h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 245)
	for n, p := range products {
		fill := n%2 == 1
		row := []string{
			p.SKU,
			p.Name,
			repository.CategoryName(categories, p.CategoryID),
			cart.FormatCents(p.PriceCents),
			strconv.Itoa(p.Stock),
		}
		for i, v := range row {
			align := "L"
			if i >= 3 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(pdf, v), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	inv := Inventory(products)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Productos: %d   Unidades: %d   Valor en inventario: %s",
		inv.Products, inv.Units, cart.FormatCents(inv.StockValueCents)))

	return output(pdf)
}

// SaleReceiptPDF renders the printed ticket of one sale.
func SaleReceiptPDF(sale model.Sale, tax cart.TaxPolicy) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Ticket - "+sale.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(brandRed[0], brandRed[1], brandRed[2])
	pdf.CellFormat(0, 10, brand, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Ticket: "+sale.ID, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Fecha: "+receiptDate(sale.CreatedAt), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(pdf, "Atendió: "+sale.Identity), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, it := range sale.Items {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.MultiCell(0, 5, tr(pdf, it.Name), "", "L", false)
		pdf.SetFont("Helvetica", "", 8)
		kind := "Boleto"
		if it.Kind == model.KindProduct {
			kind = fmt.Sprintf("Producto x%d", it.Quantity())
		}
		pdf.CellFormat(80, 5, kind, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, cart.FormatCents(it.LineTotalCents()), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	rate := tax.Rate().Shift(2).String()
	totals := [][2]string{
		{"Subtotal:", cart.FormatCents(sale.SubtotalCents)},
		{"IVA (" + rate + "%):", cart.FormatCents(sale.TaxCents)},
		{"TOTAL:", cart.FormatCents(sale.TotalCents)},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(80, 6, row[0], "T", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "T", 1, "R", false, 0, "")
	}
	if sale.TicketCount() > 0 {
		if err := admissionBlock(pdf, sale); err != nil {
			return nil, err
		}
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, tr(pdf, "¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return output(pdf)
}

// admissionBlock centers the admission QR below the totals.
func admissionBlock(pdf *gofpdf.Fpdf, sale model.Sale) error {
	png, err := AdmissionQR(sale)
	if err != nil {
		return err
	}
	name := "qr-" + sale.ID
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	const edge = 40.0
	pageW, _ := pdf.GetPageSize()
	pdf.Ln(4)
	pdf.ImageOptions(name, (pageW-edge)/2, pdf.GetY(), edge, edge, true, opts, 0, "")
	return pdf.Error()
}

func receiptDate(createdAt string) string {
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return ts.Format("02/01/2006 15:04")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
