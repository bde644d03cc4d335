// Package loggingtest provides a logger recording its entries, with methods
// to wait for expected entries in tests.
package loggingtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/zalando/msgfilter/logging"
)

var ErrWaitTimeout = errors.New("timeout")

type TestLogger struct {
	mu      sync.Mutex
	entries []string
	changed chan struct{}
	fields  map[string]any
	parent  *TestLogger
}

var _ logging.Logger = (*TestLogger)(nil)

func New() *TestLogger {
	return &TestLogger{changed: make(chan struct{})}
}

func (tl *TestLogger) root() *TestLogger {
	if tl.parent != nil {
		return tl.parent.root()
	}

	return tl
}

func (tl *TestLogger) save(e string) {
	for k, v := range tl.fields {
		e += fmt.Sprintf(" %s=%v", k, v)
	}

	r := tl.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	close(r.changed)
	r.changed = make(chan struct{})
}

func (tl *TestLogger) count(exp string) (int, <-chan struct{}) {
	r := tl.root()
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, e := range r.entries {
		if strings.Contains(e, exp) {
			n++
		}
	}

	return n, r.changed
}

// Count returns the number of entries containing exp.
func (tl *TestLogger) Count(exp string) int {
	n, _ := tl.count(exp)
	return n
}

// WaitForN waits until n entries containing exp were logged.
func (tl *TestLogger) WaitForN(exp string, n int, to time.Duration) error {
	timeout := time.After(to)
	for {
		found, changed := tl.count(exp)
		if found >= n {
			return nil
		}

		select {
		case <-changed:
		case <-timeout:
			return ErrWaitTimeout
		}
	}
}

// WaitFor waits until an entry containing exp was logged.
func (tl *TestLogger) WaitFor(exp string, to time.Duration) error {
	return tl.WaitForN(exp, 1, to)
}

// Reset drops the recorded entries.
func (tl *TestLogger) Reset() {
	r := tl.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

func (tl *TestLogger) logf(f string, a ...any) { tl.save(fmt.Sprintf(f, a...)) }
func (tl *TestLogger) log(a ...any)            { tl.save(fmt.Sprint(a...)) }

func (tl *TestLogger) Error(a ...any)            { tl.log(a...) }
func (tl *TestLogger) Errorf(f string, a ...any) { tl.logf(f, a...) }
func (tl *TestLogger) Warn(a ...any)             { tl.log(a...) }
func (tl *TestLogger) Warnf(f string, a ...any)  { tl.logf(f, a...) }
func (tl *TestLogger) Info(a ...any)             { tl.log(a...) }
func (tl *TestLogger) Infof(f string, a ...any)  { tl.logf(f, a...) }
func (tl *TestLogger) Debug(a ...any)            { tl.log(a...) }
func (tl *TestLogger) Debugf(f string, a ...any) { tl.logf(f, a...) }

// WithFields returns a logger recording to the same entries, appending the
// fields to each entry.
func (tl *TestLogger) WithFields(fields map[string]any) logging.Logger {
	f := make(map[string]any, len(tl.fields)+len(fields))
	for k, v := range tl.fields {
		f[k] = v
	}

	for k, v := range fields {
		f[k] = v
	}

	return &TestLogger{fields: f, parent: tl.root()}
}
