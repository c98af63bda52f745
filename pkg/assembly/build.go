package assembly

import (
	"fmt"
	"io"
	"os"

	"github.com/haivivi/pipekit/pkg/pipe"
)

// Pipeline is a built, runnable pipeline. It owns the files it opened
// while building; Close releases them. Endpoints mapped to the process
// standard streams are never closed.
type Pipeline struct {
	// Name is the pipeline name from the description.
	Name string

	sch   *pipe.Scheduler
	files []*os.File
}

// Build wires a validated description into a scheduler. It opens every
// file endpoint the description names; on any error everything opened so
// far is closed again and nothing runs.
func Build(cfg *Config, opts ...pipe.Option) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	b := &builder{
		sch:     pipe.New(opts...),
		buffers: map[string]any{},
		types:   map[string]string{},
	}
	for _, spec := range cfg.Buffers {
		b.addBuffer(spec)
	}
	for i := range cfg.Blocks {
		if err := b.addBlock(&cfg.Blocks[i]); err != nil {
			b.closeFiles()
			return nil, err
		}
	}
	return &Pipeline{Name: cfg.Name, sch: b.sch, files: b.files}, nil
}

// Scheduler returns the underlying scheduler.
func (p *Pipeline) Scheduler() *pipe.Scheduler { return p.sch }

// Run sweeps the pipeline until it is quiescent or a block fails.
func (p *Pipeline) Run() error { return p.sch.Run() }

// Stats returns a snapshot of every buffer.
func (p *Pipeline) Stats() []pipe.BufferStats { return p.sch.Stats() }

// Close closes the files opened by Build.
func (p *Pipeline) Close() error {
	var first error
	for _, f := range p.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.files = nil
	return first
}

type builder struct {
	sch     *pipe.Scheduler
	buffers map[string]any
	types   map[string]string
	files   []*os.File
}

func (b *builder) closeFiles() {
	for _, f := range b.files {
		f.Close()
	}
	b.files = nil
}

func (b *builder) addBuffer(spec BufferSpec) {
	switch spec.Type {
	case TypeU8:
		b.buffers[spec.Name] = pipe.NewBuffer[uint8](b.sch, spec.Name, spec.Size)
	case TypeI16:
		b.buffers[spec.Name] = pipe.NewBuffer[int16](b.sch, spec.Name, spec.Size)
	case TypeI32:
		b.buffers[spec.Name] = pipe.NewBuffer[int32](b.sch, spec.Name, spec.Size)
	case TypeF32:
		b.buffers[spec.Name] = pipe.NewBuffer[float32](b.sch, spec.Name, spec.Size)
	case TypeF64:
		b.buffers[spec.Name] = pipe.NewBuffer[float64](b.sch, spec.Name, spec.Size)
	case TypeC64:
		b.buffers[spec.Name] = pipe.NewBuffer[pipe.Complex[float32]](b.sch, spec.Name, spec.Size)
	case TypeInt:
		b.buffers[spec.Name] = pipe.NewBuffer[int](b.sch, spec.Name, spec.Size)
	}
	b.types[spec.Name] = spec.Type
}

func (b *builder) addBlock(spec *BlockSpec) error {
	switch spec.Kind {
	case KindStreamSource:
		return b.addStreamSource(spec)
	case KindStreamSink:
		return b.addStreamSink(spec)
	case KindTextFormatter:
		return b.addTextFormatter(spec)
	case KindCArrayFormatter:
		return b.addCArrayFormatter(spec)
	case KindCounter:
		return b.addCounter(spec)
	case KindDecimator:
		return b.addDecimator(spec)
	case KindRateEstimator:
		return b.addRateEstimator(spec)
	case KindSerializer:
		return b.addSerializer(spec)
	}
	return fmt.Errorf("assembly: block %q: unknown kind %q", spec.Name, spec.Kind)
}

// bufferOf resolves a declared buffer to its concrete element type.
func bufferOf[T any](b *builder, spec *BlockSpec, role, name string) (*pipe.Buffer[T], error) {
	buf, ok := b.buffers[name].(*pipe.Buffer[T])
	if !ok {
		return nil, fmt.Errorf("assembly: block %q: %s buffer %q has element type %s", spec.Name, role, name, b.types[name])
	}
	return buf, nil
}

func (b *builder) openInput(spec *BlockSpec) (io.Reader, error) {
	switch spec.File {
	case "":
		return nil, fmt.Errorf("assembly: block %q: missing file", spec.Name)
	case "-", "stdin":
		return os.Stdin, nil
	default:
		f, err := os.Open(spec.File)
		if err != nil {
			return nil, fmt.Errorf("assembly: block %q: %w", spec.Name, err)
		}
		b.files = append(b.files, f)
		return f, nil
	}
}

func (b *builder) openOutput(spec *BlockSpec) (io.Writer, error) {
	switch spec.File {
	case "":
		return nil, fmt.Errorf("assembly: block %q: missing file", spec.Name)
	case "-", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.Create(spec.File)
		if err != nil {
			return nil, fmt.Errorf("assembly: block %q: %w", spec.Name, err)
		}
		b.files = append(b.files, f)
		return f, nil
	}
}

func (b *builder) addStreamSource(spec *BlockSpec) error {
	r, err := b.openInput(spec)
	if err != nil {
		return err
	}
	switch b.types[spec.Output] {
	case TypeU8:
		return streamSource[uint8](b, spec, r)
	case TypeI16:
		return streamSource[int16](b, spec, r)
	case TypeI32:
		return streamSource[int32](b, spec, r)
	case TypeF32:
		return streamSource[float32](b, spec, r)
	case TypeF64:
		return streamSource[float64](b, spec, r)
	case TypeC64:
		return streamSource[pipe.Complex[float32]](b, spec, r)
	default:
		return streamSource[int](b, spec, r)
	}
}

func streamSource[T any](b *builder, spec *BlockSpec, r io.Reader) error {
	out, err := bufferOf[T](b, spec, "output", spec.Output)
	if err != nil {
		return err
	}
	s := pipe.NewStreamSource(b.sch, spec.Name, r, out)
	s.Loop = spec.Loop
	return nil
}

func (b *builder) addStreamSink(spec *BlockSpec) error {
	w, err := b.openOutput(spec)
	if err != nil {
		return err
	}
	switch b.types[spec.Input] {
	case TypeU8:
		return streamSink[uint8](b, spec, w)
	case TypeI16:
		return streamSink[int16](b, spec, w)
	case TypeI32:
		return streamSink[int32](b, spec, w)
	case TypeF32:
		return streamSink[float32](b, spec, w)
	case TypeF64:
		return streamSink[float64](b, spec, w)
	case TypeC64:
		return streamSink[pipe.Complex[float32]](b, spec, w)
	default:
		return streamSink[int](b, spec, w)
	}
}

func streamSink[T any](b *builder, spec *BlockSpec, w io.Writer) error {
	in, err := bufferOf[T](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	pipe.NewStreamSink(b.sch, spec.Name, w, in)
	return nil
}

func (b *builder) addTextFormatter(spec *BlockSpec) error {
	if spec.Format == "" {
		return fmt.Errorf("assembly: block %q: missing format", spec.Name)
	}
	w, err := b.openOutput(spec)
	if err != nil {
		return err
	}
	switch b.types[spec.Input] {
	case TypeU8:
		return textFormatter[uint8](b, spec, w)
	case TypeI16:
		return textFormatter[int16](b, spec, w)
	case TypeI32:
		return textFormatter[int32](b, spec, w)
	case TypeF32:
		return textFormatter[float32](b, spec, w)
	case TypeF64:
		return textFormatter[float64](b, spec, w)
	case TypeInt:
		return textFormatter[int](b, spec, w)
	default:
		return fmt.Errorf("assembly: block %q: text-formatter cannot format %s elements, use carray-formatter", spec.Name, b.types[spec.Input])
	}
}

func textFormatter[T pipe.Number](b *builder, spec *BlockSpec, w io.Writer) error {
	in, err := bufferOf[T](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	f := pipe.NewTextFormatter(b.sch, spec.Name, spec.Format, in, w)
	if spec.Decimation > 0 {
		f.Decimation = spec.Decimation
	}
	if spec.Scale != 0 {
		f.Scale = T(spec.Scale)
	}
	return nil
}

func (b *builder) addCArrayFormatter(spec *BlockSpec) error {
	if spec.Format == "" {
		return fmt.Errorf("assembly: block %q: missing format", spec.Name)
	}
	in, err := bufferOf[pipe.Complex[float32]](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	var w io.Writer
	if spec.File != "" {
		if w, err = b.openOutput(spec); err != nil {
			return err
		}
	}
	f := pipe.NewArrayFormatter(b.sch, spec.Name, spec.Head, spec.Format, spec.Tail, in, w)
	if spec.Scale != 0 {
		f.Scale = float32(spec.Scale)
	}
	return nil
}

func (b *builder) addCounter(spec *BlockSpec) error {
	switch b.types[spec.Input] {
	case TypeU8:
		return counter[uint8](b, spec)
	case TypeI16:
		return counter[int16](b, spec)
	case TypeI32:
		return counter[int32](b, spec)
	case TypeF32:
		return counter[float32](b, spec)
	case TypeF64:
		return counter[float64](b, spec)
	case TypeC64:
		return counter[pipe.Complex[float32]](b, spec)
	default:
		return counter[int](b, spec)
	}
}

func counter[Tin any](b *builder, spec *BlockSpec) error {
	in, err := bufferOf[Tin](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	switch b.types[spec.Output] {
	case TypeInt:
		out, err := bufferOf[int](b, spec, "output", spec.Output)
		if err != nil {
			return err
		}
		pipe.NewCounter(b.sch, spec.Name, in, out)
		return nil
	case TypeI32:
		out, err := bufferOf[int32](b, spec, "output", spec.Output)
		if err != nil {
			return err
		}
		pipe.NewCounter(b.sch, spec.Name, in, out)
		return nil
	default:
		return fmt.Errorf("assembly: block %q: counter output must be %s or %s", spec.Name, TypeInt, TypeI32)
	}
}

func (b *builder) addDecimator(spec *BlockSpec) error {
	switch b.types[spec.Input] {
	case TypeU8:
		return decimator[uint8](b, spec)
	case TypeI16:
		return decimator[int16](b, spec)
	case TypeI32:
		return decimator[int32](b, spec)
	case TypeF32:
		return decimator[float32](b, spec)
	case TypeF64:
		return decimator[float64](b, spec)
	case TypeC64:
		return decimator[pipe.Complex[float32]](b, spec)
	default:
		return decimator[int](b, spec)
	}
}

func decimator[T any](b *builder, spec *BlockSpec) error {
	in, err := bufferOf[T](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	out, err := bufferOf[T](b, spec, "output", spec.Output)
	if err != nil {
		return err
	}
	_, err = pipe.NewDecimator(b.sch, spec.Name, spec.Factor, in, out)
	return err
}

func (b *builder) addRateEstimator(spec *BlockSpec) error {
	num, err := bufferOf[int](b, spec, "num", spec.Num)
	if err != nil {
		return err
	}
	den, err := bufferOf[int](b, spec, "den", spec.Den)
	if err != nil {
		return err
	}
	out, err := bufferOf[float32](b, spec, "output", spec.Output)
	if err != nil {
		return err
	}
	r := pipe.NewRateEstimator(b.sch, spec.Name, num, den, out)
	if spec.SampleSize > 0 {
		r.SampleSize = spec.SampleSize
	}
	return nil
}

func (b *builder) addSerializer(spec *BlockSpec) error {
	pair := b.types[spec.Input] + ">" + b.types[spec.Output]
	switch pair {
	case "u8>i16":
		return serializer[uint8, int16](b, spec)
	case "u8>i32":
		return serializer[uint8, int32](b, spec)
	case "u8>f32":
		return serializer[uint8, float32](b, spec)
	case "u8>f64":
		return serializer[uint8, float64](b, spec)
	case "u8>c64":
		return serializer[uint8, pipe.Complex[float32]](b, spec)
	case "i16>u8":
		return serializer[int16, uint8](b, spec)
	case "i32>u8":
		return serializer[int32, uint8](b, spec)
	case "f32>u8":
		return serializer[float32, uint8](b, spec)
	case "f64>u8":
		return serializer[float64, uint8](b, spec)
	case "c64>u8":
		return serializer[pipe.Complex[float32], uint8](b, spec)
	case "f32>c64":
		return serializer[float32, pipe.Complex[float32]](b, spec)
	case "c64>f32":
		return serializer[pipe.Complex[float32], float32](b, spec)
	default:
		return fmt.Errorf("assembly: block %q: unsupported serializer reshape %s to %s", spec.Name, b.types[spec.Input], b.types[spec.Output])
	}
}

func serializer[Tin, Tout any](b *builder, spec *BlockSpec) error {
	in, err := bufferOf[Tin](b, spec, "input", spec.Input)
	if err != nil {
		return err
	}
	out, err := bufferOf[Tout](b, spec, "output", spec.Output)
	if err != nil {
		return err
	}
	_, err = pipe.NewSerializer(b.sch, spec.Name, in, out)
	return err
}
