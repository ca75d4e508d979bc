package sim

// FeeConfig is the management/performance fee structure applied to the
// consolidated equity.
type FeeConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Management is the annual management fee rate, accrued daily as
	// rate/365 of that day's equity.
	Management float64 `json:"management" yaml:"management"`

	// Performance is the rate charged on equity above the high-water
	// mark.
	Performance float64 `json:"performance" yaml:"performance"`
}

// fee computes the day's combined fee from the already
// mark-to-market-updated equity and the watermark built from strictly
// prior history, rounded to cents. The caller subtracts it from the
// same equity, so fees are realized same-day without the watermark
// ever seeing same-day equity.
func (f FeeConfig) fee(equity, watermark float64) float64 {
	profit := equity - watermark
	if profit < 0 {
		profit = 0
	}
	return round2(equity*f.Management/365 + profit*f.Performance)
}
