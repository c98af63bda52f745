package pipe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader serves data in scripted chunk sizes, then falls back to
// whatever fits. It simulates a descriptor that returns short reads at
// arbitrary, element-misaligned boundaries.
type chunkReader struct {
	data   []byte
	pos    int
	chunks []int
	i      int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := min(len(p), len(r.data)-r.pos)
	if r.i < len(r.chunks) {
		n = min(n, r.chunks[r.i])
		r.i++
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func le32(vals ...uint32) []byte {
	var buf bytes.Buffer
	for _, v := range vals {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func TestStreamSourceElementBoundary(t *testing.T) {
	want := []uint32{10, 20, 30, 40, 50}
	// 3-byte first read stops inside the first element; the source must
	// issue completion reads and never commit a partial element.
	r := &chunkReader{data: le32(want...), chunks: []int{3, 1, 6, 2, 5}}

	sch := New()
	out := NewBuffer[uint32](sch, "out", 16)
	NewStreamSource(sch, "src", r, out)

	if err := sch.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	rs := out.ReadSlice()
	if len(rs) != len(want) {
		t.Fatalf("got %d elements, want %d", len(rs), len(want))
	}
	for i, v := range want {
		if rs[i] != v {
			t.Errorf("element %d = %d, want %d", i, rs[i], v)
		}
	}
}

func TestStreamSourceTruncatedElement(t *testing.T) {
	// 6 bytes of 4-byte elements: the stream ends inside the second
	// element, which is fatal.
	r := &chunkReader{data: []byte{1, 2, 3, 4, 5, 6}}

	sch := New()
	out := NewBuffer[uint32](sch, "out", 16)
	NewStreamSource(sch, "src", r, out)

	err := sch.Run()
	if err == nil {
		t.Fatal("Run() succeeded on a stream truncated mid-element")
	}
	if !strings.Contains(err.Error(), "inside an element") {
		t.Errorf("error = %v", err)
	}
}

func TestStreamSourceBackpressure(t *testing.T) {
	r := &chunkReader{data: le32(1, 2, 3, 4)}
	sch := New()
	out := NewBuffer[uint32](sch, "out", 2)
	src := NewStreamSource(sch, "src", r, out)

	if err := src.Step(); err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if got := out.Readable(); got != 2 {
		t.Fatalf("Readable() = %d, want 2", got)
	}
	// Full output buffer: the next activation must not touch the stream.
	pos := r.pos
	if err := src.Step(); err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if r.pos != pos {
		t.Errorf("source read %d bytes with a full output buffer", r.pos-pos)
	}
}

func TestStreamSourceLoop(t *testing.T) {
	seq := []byte{1, 2, 3, 4, 5}
	got := make([]byte, 3*len(seq))

	sch := New()
	buf := NewBuffer[byte](sch, "buf", 4)
	src := NewStreamSource(sch, "src", bytes.NewReader(seq), buf)
	src.Loop = true
	sink := NewMemorySink(sch, "sink", buf, got)

	if err := sch.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if sink.Filled() != len(got) {
		t.Fatalf("sink filled %d of %d", sink.Filled(), len(got))
	}
	for i, v := range got {
		if v != seq[i%len(seq)] {
			t.Fatalf("element %d = %d, want %d", i, v, seq[i%len(seq)])
		}
	}
}

func TestStreamSourceLoopNotSeekable(t *testing.T) {
	sch := New()
	buf := NewBuffer[byte](sch, "buf", 4)
	src := NewStreamSource(sch, "src", &chunkReader{data: []byte{1}}, buf)
	src.Loop = true

	err := sch.Run()
	if err == nil || !strings.Contains(err.Error(), "not seekable") {
		t.Errorf("Run() error = %v, want not-seekable error", err)
	}
}

func TestStreamSourceLoopEmptyStream(t *testing.T) {
	sch := New()
	buf := NewBuffer[byte](sch, "buf", 4)
	src := NewStreamSource(sch, "src", bytes.NewReader(nil), buf)
	src.Loop = true

	err := sch.Run()
	if err == nil || !strings.Contains(err.Error(), "empty stream") {
		t.Errorf("Run() error = %v, want empty-stream error", err)
	}
}

func TestStreamSourceIdleAtEOF(t *testing.T) {
	sch := New()
	buf := NewBuffer[byte](sch, "buf", 8)
	src := NewStreamSource(sch, "src", bytes.NewReader([]byte{1, 2}), buf)

	if err := sch.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := buf.Readable(); got != 2 {
		t.Fatalf("Readable() = %d, want 2", got)
	}
	// Idle, not an error: further activations do nothing.
	buf.CommitRead(2)
	if err := src.Step(); err != nil {
		t.Errorf("Step() after EOF error: %v", err)
	}
	if got := buf.Readable(); got != 0 {
		t.Errorf("Readable() = %d after EOF, want 0", got)
	}
}

type shortWriter struct {
	n int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if w.n < len(p) {
		return w.n, nil
	}
	return len(p), nil
}

func TestStreamSink(t *testing.T) {
	t.Run("writes all readable bytes", func(t *testing.T) {
		var out bytes.Buffer
		sch := New()
		buf := NewBuffer[uint32](sch, "buf", 8)
		NewMemorySource(sch, "src", []uint32{7, 8, 9}, buf)
		NewStreamSink(sch, "sink", &out, buf)

		if err := sch.Run(); err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if want := le32(7, 8, 9); !bytes.Equal(out.Bytes(), want) {
			t.Errorf("wrote %v, want %v", out.Bytes(), want)
		}
		if got := buf.Readable(); got != 0 {
			t.Errorf("Readable() = %d after sink, want 0", got)
		}
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		sch := New()
		buf := NewBuffer[uint32](sch, "buf", 8)
		sink := NewStreamSink(sch, "sink", &shortWriter{}, buf)
		if err := sink.Step(); err != nil {
			t.Errorf("Step() error: %v", err)
		}
	})

	t.Run("write error is fatal", func(t *testing.T) {
		sch := New()
		buf := NewBuffer[uint32](sch, "buf", 8)
		NewMemorySource(sch, "src", []uint32{1}, buf)
		werr := errors.New("pipe closed")
		NewStreamSink(sch, "sink", errWriter{werr}, buf)

		err := sch.Run()
		if !errors.Is(err, werr) {
			t.Errorf("Run() error = %v, want wrapped %v", err, werr)
		}
	})

	t.Run("misaligned write is fatal", func(t *testing.T) {
		sch := New()
		buf := NewBuffer[uint32](sch, "buf", 8)
		NewMemorySource(sch, "src", []uint32{1, 2}, buf)
		NewStreamSink(sch, "sink", &shortWriter{n: 6}, buf)

		err := sch.Run()
		if err == nil || !strings.Contains(err.Error(), "split an element") {
			t.Errorf("Run() error = %v, want split-element error", err)
		}
	})

	t.Run("aligned short write commits what was written", func(t *testing.T) {
		sch := New()
		buf := NewBuffer[uint32](sch, "buf", 8)
		NewMemorySource(sch, "src", []uint32{1, 2, 3}, buf)
		NewStreamSink(sch, "sink", &shortWriter{n: 8}, buf)

		if err := sch.Run(); err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if got := buf.Readable(); got != 0 {
			t.Errorf("Readable() = %d, want 0", got)
		}
	})
}

type errWriter struct {
	err error
}

func (w errWriter) Write(p []byte) (int, error) { return 0, w.err }
