package dataprep

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/merongithub/ChurnPrediction/internal/domain/entity"
)

// ReadCSV parses a comma-separated stream with a header row into a dataset.
func ReadCSV(r io.Reader) (*entity.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		row := make([]string, len(record))
		copy(row, record)
		rows = append(rows, row)
	}

	return entity.NewDataset(header, rows), nil
}

// WriteCSV serializes a dataset back to CSV with its header row.
func WriteCSV(ds *entity.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(ds.Columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range ds.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
