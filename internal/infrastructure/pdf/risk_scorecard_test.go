package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farma-analytics/internal/application/dto"
	"github.com/jhoicas/farma-analytics/internal/infrastructure/pdf"
)

func TestRiskScorecard_GeneraPDF(t *testing.T) {
	report := dto.RiskReportDTO{
		PeriodDays: 90,
		Calibrated: true,
		Thresholds: dto.RiskThresholdsDTO{P25: 0.25, P50: 0.45, P75: 0.70, P90: 0.832},
	}
	ind := dto.RiskIndicatorDTO{
		Seller:         "Ana",
		TotalPortfolio: decimal.NewFromInt(1234567),
		TotalOverdue:   decimal.NewFromInt(600000),
		CompositeRisk:  0.4583,
		Percentile:     100,
		AdjustedRisk:   0.7292,
		Category:       "CRÍTICO",
	}

	out, err := pdf.NewScorecardGenerator().RiskScorecard(context.Background(), report, ind, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
