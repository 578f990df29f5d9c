package backtest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestRecorderWritesHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	rec.Record(HistoryPoint{Timestamp: 1, LeaderOBI: 0.6, LeaderPrice: 50000, FollowerPrice: 2000, Equity: 10000})
	rec.Record(HistoryPoint{Timestamp: 2, LeaderOBI: -0.1, LeaderPrice: 49990, FollowerPrice: 2010, Equity: 10010})
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][1] != "leader_obi" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("rows out of order: %v %v", rows[1][0], rows[2][0])
	}
}

func TestWriteTradesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	trades := []Trade{
		{ID: "a", Timestamp: 1700000000000000, Symbol: "ETH-USD", Side: 1, Price: 2000, Qty: 1, Action: "Long Entry"},
	}

	if err := WriteTradesCSV(trades, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][2] != "ETH-USD" || rows[1][3] != "buy" || rows[1][6] != "Long Entry" {
		t.Errorf("trade row wrong: %v", rows[1])
	}
}
