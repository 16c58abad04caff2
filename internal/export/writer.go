package export

import (
	"encoding/csv"
	"fmt"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// WriteCSV writes the table to path. The file always contains at least a
// header line; callers handing in Placeholder output still get a valid,
// non-empty artifact.
func WriteCSV(table Table, path string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return nil
}

type sidecarColumn struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type sidecarDoc struct {
	League  string          `json:"league"`
	Columns []sidecarColumn `json:"columns"`
}

// WriteSidecar writes the per-column tag metadata next to the CSV so the
// trainer can exclude look-ahead columns and encode categorical ones
// without parsing data rows.
func WriteSidecar(table Table, path string) error {
	doc := sidecarDoc{League: table.League}
	for _, c := range table.Columns {
		doc.Columns = append(doc.Columns, sidecarColumn{
			Name: c.Name,
			Tags: c.Tags.Names(),
		})
	}

	raw, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write sidecar file: %w", err)
	}
	return nil
}
