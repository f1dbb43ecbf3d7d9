package google

import (
	"fmt"
	"strings"
)

// findRow returns the 1-based sheet row whose first cell equals id, or 0.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}

// nextRow is the first row after the populated part of column A. Row 1 is
// reserved for the header, so an empty sheet starts at row 2.
func nextRow(values [][]any) int {
	if len(values) == 0 {
		return 2
	}
	return len(values) + 1
}

// rowRange builds an A1 range covering one full record row.
func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:G%d", sheet, row, row)
}
