package loyalty_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/loyalty"
)

func TestPointsFor(t *testing.T) {
	cases := map[string]int64{
		"0":       0,
		"-50":     0,
		"99.99":   0,
		"100":     1,
		"1350":    13,
		"25999.5": 259,
	}
	for amount, want := range cases {
		assert.Equal(t, want, loyalty.PointsFor(decimal.RequireFromString(amount)), amount)
	}
}

func TestTierFor_Limites(t *testing.T) {
	cases := []struct {
		spent string
		tier  string
	}{
		{"0", entity.TierBronze},
		{"9999.99", entity.TierBronze},
		{"10000", entity.TierSilver},
		{"49999", entity.TierSilver},
		{"50000", entity.TierGold},
		{"99999.99", entity.TierGold},
		{"100000", entity.TierPlatinum},
	}
	for _, c := range cases {
		assert.Equal(t, c.tier, loyalty.TierFor(decimal.RequireFromString(c.spent)), c.spent)
	}
}

func TestRedemptionValue(t *testing.T) {
	assert.True(t, decimal.NewFromInt(250).Equal(loyalty.RedemptionValue(250)))
	assert.True(t, loyalty.RedemptionValue(-3).IsZero())
}

func TestIsValidTier(t *testing.T) {
	assert.True(t, loyalty.IsValidTier("gold"))
	assert.False(t, loyalty.IsValidTier("diamond"))
}
