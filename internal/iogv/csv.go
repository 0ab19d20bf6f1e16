package iogv

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteCSV emits a two-column "node,community" CSV, one row per node, in
// ascending dense-index order.
func WriteCSV(nodeIDs []interface{}, membership []int) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"node", "community"}); err != nil {
		return nil, fmt.Errorf("iogv: write CSV header: %w", err)
	}
	for i, id := range nodeIDs {
		row := []string{fmt.Sprintf("%v", id), fmt.Sprintf("%d", membership[i])}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("iogv: write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("iogv: flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
