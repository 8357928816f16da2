// Package marketdata is the ingestion boundary for historical prices. The
// analytical core consumes only a well-formed PriceTable; producing one from
// whatever shape the data arrives in is this package's job.
package marketdata

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
)

const dateLayout = "2006-01-02"

// LoadPriceTable reads a price table from a CSV file: first column is the
// trading date (YYYY-MM-DD, ascending, unique), remaining columns are
// instrument prices. Empty cells and "NA"/"NaN" markers become missing
// observations.
func LoadPriceTable(path string) (*timeseries.PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewInputError("open price table %s: %v", path, err)
	}
	defer f.Close()
	return ReadPriceTable(f)
}

// ReadPriceTable parses price CSV data from r. See LoadPriceTable.
func ReadPriceTable(r io.Reader) (*timeseries.PriceTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewInputError("price table: missing header: %v", err)
	}
	if len(header) < 2 {
		return nil, domain.NewInputError("price table: need a date column and at least one instrument column")
	}
	symbols := make([]string, len(header)-1)
	for i, name := range header[1:] {
		symbols[i] = strings.TrimSpace(name)
	}

	var dates []time.Time
	columns := make([][]float64, len(symbols))
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewInputError("price table line %d: %v", line, err)
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			return nil, domain.NewInputError("price table line %d: bad date %q", line, record[0])
		}
		dates = append(dates, date)
		for i := range symbols {
			cell := strings.TrimSpace(record[i+1])
			switch strings.ToLower(cell) {
			case "", "na", "nan":
				columns[i] = append(columns[i], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, domain.NewInputError("price table line %d column %q: %q is not numeric", line, symbols[i], cell)
			}
			columns[i] = append(columns[i], v)
		}
	}

	return timeseries.New(dates, symbols, columns)
}
