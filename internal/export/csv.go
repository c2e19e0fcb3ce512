// Package export renders room state as downloadable documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/whenworksapp/whenworks-server/internal/dateutil"
	"github.com/whenworksapp/whenworks-server/internal/domain"
)

// csvHeader matches the column names the original sheet users expect.
var csvHeader = []string{"이름", "불가 날짜", "원하는 날짜"}

// utf8BOM makes Excel detect the encoding of the Korean header.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RoomCSV renders one row per participant with their name, blocked dates,
// and wanted dates. Date sets are normalized to sorted, space-delimited form.
func RoomCSV(room *domain.Room) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range room.People {
		row := []string{
			p.Name,
			dateutil.FormatDateSet(p.BlockSet()),
			dateutil.FormatDateSet(p.WantSet()),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
