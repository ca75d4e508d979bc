package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeAboveWatermark(t *testing.T) {
	t.Parallel()

	f := FeeConfig{Enabled: true, Management: 0.02, Performance: 0.2}

	// 1,020,000 * 0.02/365 = 55.89 plus 20,000 * 0.2 = 4000
	got := f.fee(1_020_000, 1_000_000)
	assert.InDelta(t, 4055.89, got, 1e-9)
}

func TestFeeBelowWatermark(t *testing.T) {
	t.Parallel()

	f := FeeConfig{Enabled: true, Management: 0.02, Performance: 0.2}

	// no performance fee under water, management fee still accrues
	got := f.fee(900_000, 1_000_000)
	assert.InDelta(t, round2(900_000*0.02/365), got, 1e-9)
	assert.InDelta(t, 49.32, got, 1e-9)
}

func TestRounding(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.1235, round4(0.12345))
	assert.Equal(t, -100.0001, round4(-100.00005))
	assert.Equal(t, 55.89, round2(55.8904109589))
}
