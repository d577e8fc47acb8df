package lib

import "fmt"

// FormatOrderNumber renders an order id as ORD-000042.
func FormatOrderNumber(id int64) string {
	return fmt.Sprintf("ORD-%06d", id)
}
