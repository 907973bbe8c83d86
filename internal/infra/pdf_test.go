package infra

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"salesapi/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Cafe", truncateName("Cafe", 22))
	assert.Equal(t, "abcdefghijklmnopqrstu…", truncateName("abcdefghijklmnopqrstuvwxyz", 22))

	// multi-byte names must never be cut mid-rune
	long := "Café con leche descafeinado grande"
	got := truncateName(long, 22)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 22, len([]rune(got)))
	assert.Equal(t, "Café con leche descaf…", got)

	// exactly at the limit is left alone
	exact := strings.Repeat("ñ", 22)
	assert.Equal(t, exact, truncateName(exact, 22))
}

func TestGenerateReceiptPDF_WritesFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	sale := &model.Sale{
		ID:           uuid.New(),
		Number:       "S-042",
		CustomerName: "Ana López",
		BranchName:   "Sucursal Centro",
		Items: []model.SaleItem{
			{ProductName: "Yerba mate orgánica edición limitada 500g", Quantity: 4,
				UnitPrice: decimal.RequireFromString("10.00"), LineTotal: decimal.RequireFromString("36.00")},
			{ProductName: "Azúcar", Quantity: 2, Cancelled: true,
				UnitPrice: decimal.RequireFromString("5.00"), LineTotal: decimal.Zero},
		},
		TotalAmount:   decimal.RequireFromString("40.00"),
		TotalDiscount: decimal.RequireFromString("4.00"),
		TotalPayable:  decimal.RequireFromString("36.00"),
		CreatedAt:     now,
	}

	path, err := GenerateReceiptPDF(sale, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, path, "sale_S-042.pdf")
	assert.Greater(t, info.Size(), int64(0))
}
