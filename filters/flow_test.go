package filters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/msgfilter/filters"
	"github.com/zalando/msgfilter/filters/filtertest"
)

func TestPausePropagatesToTransaction(t *testing.T) {
	tr, _, recs, c := recordingChain(3)
	c.Attach()

	c.Pause()
	assert.True(t, tr.Paused)
	assert.Equal(t, 1, tr.PauseCalls)
	for _, f := range recs {
		assert.True(t, f.NextPaused(), f.Name())
	}

	c.Resume(7)
	assert.False(t, tr.Paused)
	assert.Equal(t, 1, tr.ResumeCalls)
	for _, f := range recs {
		assert.False(t, f.NextPaused(), f.Name())
		assert.Equal(t, uint64(7), f.ResumeOffset(), f.Name())
	}
}

func TestPauseFromMiddle(t *testing.T) {
	tr, _, recs, _ := recordingChain(3)

	recs[1].Pause()
	assert.True(t, tr.Paused)
	assert.True(t, recs[0].NextPaused())
	assert.True(t, recs[1].NextPaused())
	assert.False(t, recs[2].NextPaused())
}

func TestPauseAfterDetach(t *testing.T) {
	tr, _, recs, c := recordingChain(2)
	c.Attach()
	tr.Detach()

	c.Pause()
	c.Resume(0)
	assert.Equal(t, 0, tr.PauseCalls)
	assert.Equal(t, 0, tr.ResumeCalls)
	assert.False(t, recs[0].NextPaused())
}

func TestResumeOffsetIsMonotonic(t *testing.T) {
	_, _, recs, c := recordingChain(2)

	c.Pause()
	c.Resume(10)
	c.Pause()
	c.Resume(4)

	for _, f := range recs {
		assert.Equal(t, uint64(10), f.ResumeOffset(), f.Name())
	}
}

func TestBufferingFilterResumesAtOffset(t *testing.T) {
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}
	b := &filtertest.Buffer{}
	c := filters.NewChain(tr, h, b)
	head := c.Head()

	head.OnBody([]byte("0123456789"))
	c.Pause()
	assert.False(t, tr.Paused, "the buffer should not pause the transaction")

	head.OnBody([]byte("abcde"))
	head.OnBody([]byte("fghij"))
	head.OnEOM()
	require.Equal(t, "abcdefghij", string(b.Buffered()))
	require.Equal(t, []string{filtertest.Body}, h.Kinds())

	c.Resume(15)
	assert.Equal(t, "0123456789fghij", string(h.BodyBytes()))
	assert.Equal(t, filtertest.EOM, h.Kinds()[len(h.Kinds())-1])
	assert.Equal(t, uint64(20), b.ReceivedBytes())
}

func TestBufferingFilterDoesNotRewind(t *testing.T) {
	h := &filtertest.Handler{}
	b := &filtertest.Buffer{}
	c := filters.NewChain(&filtertest.Transaction{}, h, b)
	head := c.Head()

	c.Pause()
	head.OnBody([]byte("0123456789"))
	c.Resume(6)
	assert.Equal(t, "6789", string(h.BodyBytes()))

	c.Pause()
	head.OnBody([]byte("abcdef"))
	c.Resume(3)
	assert.Equal(t, uint64(6), b.ResumeOffset())
	assert.Equal(t, "6789abcdef", string(h.BodyBytes()))

	c.Pause()
	head.OnBody([]byte("ghij"))
	c.Resume(30)
	assert.Equal(t, "6789abcdef", string(h.BodyBytes()))
}

func TestBufferBehindPassThrough(t *testing.T) {
	tr := &filtertest.Transaction{}
	h := &filtertest.Handler{}
	b := &filtertest.Buffer{}
	f := &filtertest.Filter{}
	c := filters.NewChain(tr, h, b, f)
	head := c.Head()

	c.Pause()
	assert.True(t, f.NextPaused())
	assert.True(t, b.NextPaused())
	assert.False(t, tr.Paused)

	head.OnBody([]byte("hello"))
	assert.Empty(t, f.Seen)

	c.Resume(2)
	assert.Equal(t, "llo", string(h.BodyBytes()))
	assert.Equal(t, []string{filtertest.Body}, f.Seen)
}
