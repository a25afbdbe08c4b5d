package testutil

import (
	"bytes"
	"sync"
)

// Fire is one recorded callback invocation.
type Fire struct {
	Name string
	Now  float64
}

// Recorder collects callback invocations from scheduler tests. It is safe
// for concurrent use so realtime clock tests can read it while ticks run.
type Recorder struct {
	mu    sync.Mutex
	fires []Fire
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a fire.
func (r *Recorder) Record(name string, now float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires = append(r.fires, Fire{Name: name, Now: now})
}

// Fires returns a copy of every recorded fire in order.
func (r *Recorder) Fires() []Fire {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Fire(nil), r.fires...)
}

// Times returns the fire times recorded for name.
func (r *Recorder) Times(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []float64
	for _, f := range r.fires {
		if f.Name == name {
			out = append(out, f.Now)
		}
	}
	return out
}

// Count returns the number of fires recorded for name.
func (r *Recorder) Count(name string) int {
	return len(r.Times(name))
}

// Len returns the total number of fires.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fires)
}

// Reset forgets every recorded fire.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires = nil
}

// MockWriter is a concurrency-safe io.Writer used to capture log output.
type MockWriter struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	writeCount int
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write implements io.Writer.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeCount++
	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}
