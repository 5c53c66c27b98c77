package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-pos/internal/model"
)

func sampleSale() model.Sale {
	return model.Sale{
		ID:       "STAR-1792175400000",
		Identity: "ana@star.mx",
		Items: []model.CartItem{
			model.NewTicketItem("Dune - Sala 1 - Asiento F7", 12000, 1, "F7"),
			model.NewTicketItem("Dune - Sala 1 2026-10-16 14:00", 12000, 1, ""),
			model.NewProductItem(model.Product{ID: 1, Name: "Nachos", PriceCents: 4500}, 2),
		},
		SubtotalCents: 33000,
		TaxCents:      5280,
		TotalCents:    38280,
		CreatedAt:     "2026-10-16T18:30:00.000Z",
	}
}

func TestNewSaleCompletedEvent(t *testing.T) {
	ev := NewSaleCompletedEvent(sampleSale())
	assert.Equal(t, 2, ev.Tickets)
	assert.Equal(t, 2, ev.ProductUnits)
	assert.Equal(t, []string{"F7"}, ev.Seats)
	assert.Equal(t, int64(38280), ev.TotalCents)
}

func TestHandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	body, err := json.Marshal(NewSaleCompletedEvent(sampleSale()))
	require.NoError(t, err)

	require.NoError(t, HandleMessage(dir, body))
	require.NoError(t, HandleMessage(dir, body))

	raw, err := os.ReadFile(filepath.Join(dir, "sales.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "sale_id=STAR-1792175400000")
	assert.Contains(t, lines[0], "seats=[F7]")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, HandleMessage(dir, []byte("{")))
	assert.Error(t, HandleMessage(dir, []byte(`{"total_cents":1}`)))
	_, err := os.Stat(filepath.Join(dir, "sales.log"))
	assert.True(t, os.IsNotExist(err))
}
