package filtertest

import "github.com/zalando/msgfilter/filters"

// Buffer is a filter that keeps the body while its forward target is
// paused, instead of pausing its own producer. On resume, it forwards only
// the part of the body at or after the resume offset.
type Buffer struct {
	filters.Base
	buf     []byte
	start   uint64
	eomHeld bool
}

func (f *Buffer) Name() string { return "buffer" }

func (f *Buffer) Clone() filters.Filter { return &Buffer{} }

// Buffered returns the body kept while paused.
func (f *Buffer) Buffered() []byte { return f.buf }

func (f *Buffer) OnBody(p []byte) {
	if !f.NextPaused() {
		f.Next().OnBody(p)
		return
	}

	if len(f.buf) == 0 {
		f.start = f.ReceivedBytes() - uint64(len(p))
	}

	f.buf = append(f.buf, p...)
}

func (f *Buffer) OnEOM() {
	if f.NextPaused() {
		f.eomHeld = true
		return
	}

	f.Next().OnEOM()
}

func (f *Buffer) Pause() { f.MarkPaused() }

func (f *Buffer) Resume(offset uint64) {
	offset = f.MarkResumed(offset)
	buf, start := f.buf, f.start
	f.buf = nil

	if end := start + uint64(len(buf)); offset < end {
		if offset > start {
			buf = buf[offset-start:]
		}

		f.Next().OnBody(buf)
	}

	if f.eomHeld {
		f.eomHeld = false
		f.Next().OnEOM()
	}
}
