package market

// GapWindow is how far back a consumer may scan to bridge a data gap.
// Multi-market calendars routinely misalign (market-specific holidays,
// FX fixing days), so both price and currency lookups tolerate up to
// this many missing dates before declaring the gap unrecoverable.
const GapWindow = 9

// ScanBack walks indices idx, idx-1, ... idx-maxBack (clamped at 0)
// and returns the first index where present reports true.
func ScanBack(idx, maxBack int, present func(int) bool) (int, bool) {
	for x := 0; x <= maxBack; x++ {
		i := idx - x
		if i < 0 {
			break
		}
		if present(i) {
			return i, true
		}
	}
	return 0, false
}
