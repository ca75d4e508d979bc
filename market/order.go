package market

import "fmt"

// Order is the target position a market should hold. The engine reads
// yesterday's order to decide today's action, which models entering at
// the next session after the signal fired.
type Order string

const (
	// OrderNone means no signal on that date.
	OrderNone  Order = ""
	OrderLong  Order = "long"
	OrderShort Order = "short"
	OrderFlat  Order = "flat"
)

// ParseOrder converts a raw label into an Order. An empty string (or
// the conventional "nan" placeholder from exported spreadsheets) maps
// to OrderNone. Anything else outside the known set is a broken
// upstream contract, not a data gap.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "nan", "NaN":
		return OrderNone, nil
	case "long":
		return OrderLong, nil
	case "short":
		return OrderShort, nil
	case "flat":
		return OrderFlat, nil
	default:
		return OrderNone, fmt.Errorf("unknown order label %q", s)
	}
}

// Active reports whether the order is a real directional position.
func (o Order) Active() bool {
	return o == OrderLong || o == OrderShort
}
