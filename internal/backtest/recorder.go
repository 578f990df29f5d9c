package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

var historyHeader = []string{
	"timestamp", "leader_obi", "leader_price", "follower_price", "equity",
}

// Recorder streams replay history rows to a CSV file through a
// buffered background writer, so recording does not slow the tick
// loop down. It implements HistorySink.
type Recorder struct {
	file   *os.File
	writer *csv.Writer

	rows     chan []string
	done     chan struct{}
	finished chan struct{}
}

func NewRecorder(filename string) (*Recorder, error) {
	info, err := os.Stat(filename)
	needHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", filename, err)
	}

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(historyHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("recorder: write header: %w", err)
		}
		w.Flush()
	}

	r := &Recorder{
		file:     f,
		writer:   w,
		rows:     make(chan []string, 50000),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go r.backgroundWriter()
	return r, nil
}

// Record queues one history point. If the buffer is full the row is
// dropped rather than stalling the replay.
func (r *Recorder) Record(p HistoryPoint) {
	row := []string{
		fmt.Sprintf("%d", p.Timestamp),
		fmt.Sprintf("%.6f", p.LeaderOBI),
		fmt.Sprintf("%.4f", p.LeaderPrice),
		fmt.Sprintf("%.4f", p.FollowerPrice),
		fmt.Sprintf("%.4f", p.Equity),
	}

	select {
	case r.rows <- row:
	default:
	}
}

func (r *Recorder) backgroundWriter() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case row := <-r.rows:
			r.writer.Write(row)
		case <-ticker.C:
			r.writer.Flush() // periodic flush to disk
		case <-r.done:
			// drain whatever is still queued, then stop
			for {
				select {
				case row := <-r.rows:
					r.writer.Write(row)
				default:
					r.writer.Flush()
					close(r.finished)
					return
				}
			}
		}
	}
}

// Close drains pending rows, flushes and closes the file.
func (r *Recorder) Close() error {
	close(r.done)
	<-r.finished
	return r.file.Close()
}
