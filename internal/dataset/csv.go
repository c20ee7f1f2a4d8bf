package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ReadCSV reads a headed CSV file into a frame. Every column is parsed as
// numeric; empty cells and the literal "NA" become NaN.
func ReadCSV(filePath string) (*Frame, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv file %s is empty", filePath)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([][]float64, len(header))
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", rowNum, err)
		}
		rowNum++
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", rowNum, header[i], err)
			}
			columns[i] = append(columns[i], v)
		}
	}

	return FromColumns(header, columns)
}

func parseCell(cell string) (float64, error) {
	if cell == "" || cell == "NA" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as number", cell)
	}
	return v, nil
}
