package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"leadlag/internal/core"
)

// LoadTicks reads historical ticks from a CSV file with the columns
//
//	symbol,timestamp,price,quantity,side
//
// Timestamps are unix milliseconds or RFC3339; side is "buy" or
// "sell" (anything else counts as sell, matching how aggressor-side
// feeds tag unknowns). A header row is detected and skipped. The
// result is sorted by timestamp ascending, since a replay must see
// events in market order.
func LoadTicks(path string) ([]core.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open %s: %w", path, err)
	}
	defer f.Close()

	return ReadTicks(f)
}

// ReadTicks parses tick CSV from any reader. See LoadTicks for the
// expected format.
func ReadTicks(rd io.Reader) ([]core.Tick, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = 5
	r.TrimLeadingSpace = true

	ticks := make([]core.Tick, 0, 1024)
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed: read csv: %w", err)
		}
		line++

		tk, err := parseTick(rec)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("feed: line %d: %w", line, err)
		}
		ticks = append(ticks, tk)
	}

	sort.SliceStable(ticks, func(i, j int) bool {
		return ticks[i].Timestamp < ticks[j].Timestamp
	})
	return ticks, nil
}

func parseTick(rec []string) (core.Tick, error) {
	ts, err := parseTimestamp(rec[1])
	if err != nil {
		return core.Tick{}, err
	}
	price, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return core.Tick{}, fmt.Errorf("bad price %q: %w", rec[2], err)
	}
	qty, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return core.Tick{}, fmt.Errorf("bad quantity %q: %w", rec[3], err)
	}

	side := core.Sell
	if rec[4] == "buy" {
		side = core.Buy
	}

	return core.Tick{
		Symbol:    rec[0],
		Timestamp: ts,
		Price:     price,
		Quantity:  qty,
		Side:      side,
	}, nil
}

// parseTimestamp accepts unix milliseconds or RFC3339 and returns unix
// microseconds.
func parseTimestamp(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms * 1000, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t.UnixMicro(), nil
}
