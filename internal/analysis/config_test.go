package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	"github.com/ybird-labs/senate-insight-lab/pkg/config"
)

func TestDefaultParamsValid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
}

func TestWeightsMustSumToOne(t *testing.T) {
	p := DefaultParams()
	p.Weights = Weights{Timing: 0.30, Committee: 0.25, Price: 0.25, Volume: 0.10} // 0.90

	_, err := NewDetector(p, nil)
	require.Error(t, err)

	var cfgErr *models.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %T", err)
}

func TestRejectsOutOfRangeThreshold(t *testing.T) {
	p := DefaultParams()
	p.MinConfidence = 1.2
	require.Error(t, p.Validate())

	p = DefaultParams()
	p.MinConfidence = -0.1
	require.Error(t, p.Validate())
}

func TestRejectsInvertedTiers(t *testing.T) {
	p := DefaultParams()
	p.TierMedium = 0.8
	p.TierHigh = 0.5
	require.Error(t, p.Validate())
}

func TestRejectsBadVolumeBounds(t *testing.T) {
	p := DefaultParams()
	p.VolumeZHigh = p.VolumeZLow
	require.Error(t, p.Validate())
}

func TestParamsFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Analysis.TimingWindowDays = 45
	cfg.Analysis.SignificantPriceChange = 0.08
	cfg.Analysis.MinConfidenceThreshold = 0.4
	cfg.Analysis.Weights.Timing = 0.25
	cfg.Analysis.Weights.Committee = 0.25
	cfg.Analysis.Weights.Price = 0.25
	cfg.Analysis.Weights.Volume = 0.25
	cfg.Analysis.Tiers.Medium = 0.55
	cfg.Analysis.Tiers.High = 0.75

	p := ParamsFromConfig(&cfg)
	assert.Equal(t, 45, p.TimingWindowDays)
	assert.Equal(t, 0.08, p.SignificantPriceChange)
	assert.Equal(t, 0.4, p.MinConfidence)
	assert.Equal(t, Weights{0.25, 0.25, 0.25, 0.25}, p.Weights)
	assert.Equal(t, 0.55, p.TierMedium)
	assert.Equal(t, 0.75, p.TierHigh)
	require.NoError(t, p.Validate())
}

func TestIndustryMapLookups(t *testing.T) {
	m := DefaultIndustryMap()
	assert.Equal(t, "technology", m.TickerIndustry("googl"))
	assert.Equal(t, "banking", m.TickerIndustry("JPM"))
	assert.Equal(t, IndustryUnknown, m.TickerIndustry("ZZXY"))

	assert.True(t, m.TextMatchesIndustry("Hearing on artificial intelligence safety", "technology"))
	assert.True(t, m.TextMatchesIndustry("AI oversight", "technology"))
	assert.False(t, m.TextMatchesIndustry("we must maintain the status quo", "technology"),
		"single-word keywords must not match inside longer words")
	assert.False(t, m.TextMatchesIndustry("", "technology"))
	assert.False(t, m.TextMatchesIndustry("anything", "no-such-industry"))
}
