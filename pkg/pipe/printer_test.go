package pipe

import (
	"errors"
	"strings"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	t.Run("decimation and scale", func(t *testing.T) {
		var out strings.Builder
		sch := New()
		in := NewBuffer[float32](sch, "in", 16)
		f := NewTextFormatter(sch, "print", "%.1f\n", in, &out)
		f.Decimation = 2
		f.Scale = 0.5

		copy(in.WriteSlice(), []float32{1, 2, 3, 4, 5, 6})
		in.CommitWrite(6)
		if err := f.Step(); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if got, want := out.String(), "1.0\n2.0\n3.0\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
		if got := in.Readable(); got != 0 {
			t.Errorf("in.Readable() = %d, want 0 (skipped elements are consumed too)", got)
		}
	})

	t.Run("phase carries across activations", func(t *testing.T) {
		var out strings.Builder
		sch := New()
		in := NewBuffer[int32](sch, "in", 16)
		f := NewTextFormatter(sch, "print", "%d\n", in, &out)
		f.Decimation = 3

		for i := int32(1); i <= 7; i++ {
			in.WriteSlice()[0] = i
			in.CommitWrite(1)
			if err := f.Step(); err != nil {
				t.Fatalf("Step() error: %v", err)
			}
		}
		if got, want := out.String(), "3\n6\n"; got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("write failure is fatal", func(t *testing.T) {
		sch := New()
		in := NewBuffer[int32](sch, "in", 4)
		werr := errors.New("tty gone")
		NewTextFormatter(sch, "print", "%d\n", in, errWriter{werr})

		in.CommitWrite(1)
		_, err := sch.Step()
		if !errors.Is(err, werr) {
			t.Errorf("Step() error = %v, want wrapped %v", err, werr)
		}
	})
}

func TestArrayFormatter(t *testing.T) {
	t.Run("head, pairs, tail", func(t *testing.T) {
		var out strings.Builder
		sch := New()
		in := NewBuffer[Complex[float32]](sch, "in", 8)
		f := NewArrayFormatter(sch, "carray", "# %d\n", "%g %g\n", "\n", in, &out)
		f.Scale = 2

		copy(in.WriteSlice(), []Complex[float32]{{1, 2}, {3, 4}})
		in.CommitWrite(2)
		if err := f.Step(); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		want := "# 2\n2 4\n6 8\n\n"
		if got := out.String(); got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
	})

	t.Run("nil writer still drains input", func(t *testing.T) {
		sch := New()
		in := NewBuffer[Complex[float32]](sch, "in", 8)
		f := NewArrayFormatter[float32](sch, "carray", "# %d\n", "%g %g\n", "\n", in, nil)

		copy(in.WriteSlice(), []Complex[float32]{{1, 2}, {3, 4}, {5, 6}})
		in.CommitWrite(3)
		if err := f.Step(); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if got := in.Readable(); got != 0 {
			t.Errorf("in.Readable() = %d, want 0", got)
		}
	})

	t.Run("empty input writes nothing", func(t *testing.T) {
		var out strings.Builder
		sch := New()
		in := NewBuffer[Complex[float32]](sch, "in", 8)
		f := NewArrayFormatter(sch, "carray", "# %d\n", "%g %g\n", "\n", in, &out)

		if err := f.Step(); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("output = %q, want empty", out.String())
		}
	})
}
