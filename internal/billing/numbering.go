package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber renders a document number such as BILL-2024-03-0007.
func FormatNumber(prefix string, year, month, seq int) string {
	return fmt.Sprintf("%s-%d-%02d-%04d", prefix, year, month, seq)
}

// NextSequence returns the next free sequence for the (year, month) period given
// the numbers already issued in it. It never reuses a number, even after
// documents in the middle of the sequence were deleted.
func NextSequence(issued []string, prefix string, year, month int) int {
	highest := len(issued)
	periodPrefix := fmt.Sprintf("%s-%d-%02d-", prefix, year, month)
	for _, number := range issued {
		rest, ok := strings.CutPrefix(number, periodPrefix)
		if !ok {
			continue
		}
		if seq, err := strconv.Atoi(rest); err == nil && seq > highest {
			highest = seq
		}
	}
	return highest + 1
}
