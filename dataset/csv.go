package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/conejocapital/cascadeflow/flow"
)

// Column fallbacks mirror the upstream export script, so the raw
// adl_detailed_analysis CSV loads without a mapping step.
var (
	assetColumns    = []string{"coin", "asset", "ticker", "symbol"}
	notionalColumns = []string{"adl_notional", "notional", "usd", "value"}
	sideColumns     = []string{"side", "direction"}
)

// LoadCSV reads the raw analysis CSV into a canonical log. The header
// row maps columns by name; rows missing a timestamp or carrying a
// non-positive notional are dropped.
func LoadCSV(path string) (*flow.Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["time"]; !ok {
		return nil, fmt.Errorf("csv has no time column")
	}

	field := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := col[name]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	var events []flow.Event
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		ts, ok := parseTimestamp(field(row, "time"))
		if !ok {
			continue
		}
		notional, err := strconv.ParseFloat(field(row, notionalColumns...), 64)
		if err != nil {
			continue
		}
		notional = math.Abs(notional)
		if notional <= 0 {
			continue
		}
		asset := field(row, assetColumns...)
		if asset == "" {
			asset = "UNKNOWN"
		}

		events = append(events, flow.Event{
			Timestamp:     ts,
			Asset:         asset,
			NotionalUSD:   notional,
			Side:          flow.ParseSide(field(row, sideColumns...)),
			SourceAccount: field(row, "liquidated_user"),
			TargetAccount: field(row, "user"),
		})
	}

	return flow.NewLog(events, flow.Range{}), nil
}

// parseTimestamp accepts epoch milliseconds, epoch seconds (anything
// below 1e12 is assumed seconds), or RFC3339.
func parseTimestamp(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if v <= 0 {
			return 0, false
		}
		if v < 1e12 {
			return int64(v * 1000), true
		}
		return int64(v), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UnixMilli(), true
	}
	return 0, false
}
