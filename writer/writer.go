package writer

import (
	"errors"
	"strings"
	"sync"

	"github.com/replaytrader/replaytrader/log"
)

var errIDNotSet = errors.New("id not set")

// Writer captures the log output of one run so it can be stored alongside
// the run's results
type Writer struct {
	runID    string
	logs     []string
	isActive bool
	mu       sync.Mutex
}

// SetupWriter returns an active writer for the run id
func SetupWriter(id string) (*Writer, error) {
	if id == "" {
		return nil, errIDNotSet
	}
	return &Writer{
		runID:    id,
		isActive: true,
	}, nil
}

// Attach registers the writer with every sub logger
func (w *Writer) Attach() error {
	return log.AddWriter(w)
}

// Detach stops capturing and unregisters the writer
func (w *Writer) Detach() error {
	w.DeActivate()
	return log.RemoveWriter(w)
}

// RunID returns the id the writer captures logs for
func (w *Writer) RunID() string {
	return w.runID
}

// DeActivate prevents any new logs being written to the writer
func (w *Writer) DeActivate() {
	w.mu.Lock()
	w.isActive = false
	w.mu.Unlock()
}

// Write stores a copy of p while the writer is active
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isActive || len(p) == 0 {
		// discarded, the multiwriter treats short writes as failures
		return len(p), nil
	}
	w.logs = append(w.logs, string(p))
	return len(p), nil
}

// Lines returns every captured log line
func (w *Writer) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	resp := make([]string, 0, len(w.logs))
	for i := range w.logs {
		resp = append(resp, strings.TrimRight(w.logs[i], "\n"))
	}
	return resp
}

// String returns the accumulated logs
func (w *Writer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.logs, "")
}
