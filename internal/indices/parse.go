package indices

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/franalderete7/expenzo-sub000/internal/core"
)

// parseIndexRows converts a values matrix (as returned by the Sheets
// API) into index values. A first row with neither a parseable period
// nor a numeric value is treated as a header; blank rows are skipped;
// anything else malformed aborts the whole parse.
func parseIndexRows(values [][]interface{}, kind core.IndexKind) ([]core.IndexValue, error) {
	var out []core.IndexValue
	for i, row := range values {
		periodStr := strings.TrimSpace(cell(row, 0))
		valueStr := strings.TrimSpace(cell(row, 1))
		if periodStr == "" && valueStr == "" {
			continue
		}

		p, err := parsePeriod(periodStr)
		if err != nil {
			// A header row has a non-numeric value cell too. A first row
			// with a real number next to a broken period is bad data.
			if i == 0 && !looksNumeric(valueStr) {
				continue
			}
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		value, err := parseValue(valueStr)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, periodStr, err)
		}

		out = append(out, core.IndexValue{Kind: kind, Period: p, Value: value})
	}
	return out, nil
}

// parsePeriod accepts YYYY-MM and YYYY/MM.
func parsePeriod(s string) (core.Period, error) {
	normalized := strings.ReplaceAll(s, "/", "-")
	parts := strings.SplitN(normalized, "-", 2)
	if len(parts) != 2 {
		return core.Period{}, fmt.Errorf("malformed period %q", s)
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return core.Period{}, fmt.Errorf("malformed period %q", s)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return core.Period{}, fmt.Errorf("malformed period %q", s)
	}
	p := core.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return core.Period{}, fmt.Errorf("period %q: %w", s, err)
	}
	return p, nil
}

// parseValue accepts decimal comma or dot. Index values keep their full
// published precision.
func parseValue(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed value %q", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive value %q", s)
	}
	return d, nil
}

func looksNumeric(s string) bool {
	_, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	return err == nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}
