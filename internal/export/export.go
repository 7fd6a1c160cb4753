// Package export renders the project collection as user downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpggio/l10n-tracker/internal/domain/project"
	"github.com/rpggio/l10n-tracker/internal/filestore"
)

// CSVHeader is the first row of every CSV summary.
var CSVHeader = []string{"Project ID", "Created At", "Types", "URL", "Notes", "% Complete"}

// JSON returns the full collection exactly as the project document stores it.
func JSON(coll *project.Collection) ([]byte, error) {
	return filestore.EncodeCollection(coll)
}

// WriteCSV writes one summary row per overview row, in the given order.
func WriteCSV(w io.Writer, rows []project.OverviewRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		types := make([]string, 0, len(row.Types))
		for _, t := range row.Types {
			types = append(types, string(t))
		}
		record := []string{
			row.ID,
			row.CreatedAt,
			strings.Join(types, ","),
			row.URL,
			row.Notes,
			strconv.Itoa(row.Percent),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %q: %w", row.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the summary rows as CSV bytes.
func CSV(rows []project.OverviewRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
