package report

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/cinema-pos/internal/model"
)

// qrSize is the edge of the rendered PNG in pixels.
const qrSize = 256

// AdmissionCode is the payload scanned at the theatre door:
// brand, sale id, ticket count and total in cents, pipe separated.
func AdmissionCode(sale model.Sale) string {
	return fmt.Sprintf("%s|%s|%d|%d", brand, sale.ID, sale.TicketCount(), sale.TotalCents)
}

// AdmissionQR renders AdmissionCode as a PNG.
func AdmissionQR(sale model.Sale) ([]byte, error) {
	png, err := qrcode.Encode(AdmissionCode(sale), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("admission qr %s: %w", sale.ID, err)
	}
	return png, nil
}
