package assembly

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Element type names accepted in buffer declarations.
const (
	TypeU8  = "u8"  // uint8
	TypeI16 = "i16" // int16
	TypeI32 = "i32" // int32
	TypeF32 = "f32" // float32
	TypeF64 = "f64" // float64
	TypeC64 = "c64" // pipe.Complex[float32]
	TypeInt = "int" // int, used by counter and rate-estimator plumbing
)

// Block kinds accepted in block declarations.
const (
	KindStreamSource    = "stream-source"
	KindStreamSink      = "stream-sink"
	KindTextFormatter   = "text-formatter"
	KindCArrayFormatter = "carray-formatter"
	KindCounter         = "counter"
	KindDecimator       = "decimator"
	KindRateEstimator   = "rate-estimator"
	KindSerializer      = "serializer"
)

var elemTypes = map[string]bool{
	TypeU8: true, TypeI16: true, TypeI32: true, TypeF32: true,
	TypeF64: true, TypeC64: true, TypeInt: true,
}

var blockKinds = map[string]bool{
	KindStreamSource: true, KindStreamSink: true, KindTextFormatter: true,
	KindCArrayFormatter: true, KindCounter: true, KindDecimator: true,
	KindRateEstimator: true, KindSerializer: true,
}

// Config is a parsed pipeline description.
type Config struct {
	// Name identifies the pipeline in logs and stats output.
	Name string `yaml:"name,omitempty"`

	// Buffers declares the typed bounded buffers of the pipeline.
	Buffers []BufferSpec `yaml:"buffers"`

	// Blocks declares the blocks and their wiring, in scheduling order.
	Blocks []BlockSpec `yaml:"blocks"`
}

// BufferSpec declares one buffer.
type BufferSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Size int    `yaml:"size"`
}

// BlockSpec declares one block. Which fields apply depends on Kind.
type BlockSpec struct {
	// Kind selects the block implementation.
	Kind string `yaml:"kind"`

	// Name is the diagnostic block name. Defaults to the kind plus the
	// block's position.
	Name string `yaml:"name,omitempty"`

	// Input and Output name the buffers most kinds read and write.
	Input  string `yaml:"input,omitempty"`
	Output string `yaml:"output,omitempty"`

	// Num and Den name the paired count inputs of a rate-estimator.
	Num string `yaml:"num,omitempty"`
	Den string `yaml:"den,omitempty"`

	// File is the byte-stream endpoint of stream and formatter kinds:
	// a path, "-"/"stdin"/"stdout", or "stderr". A carray-formatter with
	// no file drains its input without formatting.
	File string `yaml:"file,omitempty"`

	// Loop rewinds a stream-source at end of stream.
	Loop bool `yaml:"loop,omitempty"`

	// Factor is the decimator group size.
	Factor int `yaml:"factor,omitempty"`

	// Format, Head and Tail are the formatter templates.
	Format string `yaml:"format,omitempty"`
	Head   string `yaml:"head,omitempty"`
	Tail   string `yaml:"tail,omitempty"`

	// Scale multiplies formatted values. Defaults to 1.
	Scale float64 `yaml:"scale,omitempty"`

	// Decimation is the text-formatter output decimation. Defaults to 1.
	Decimation int `yaml:"decimation,omitempty"`

	// SampleSize is the rate-estimator reporting threshold.
	SampleSize int `yaml:"sample_size,omitempty"`
}

// Parse decodes and validates a pipeline description.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("assembly: parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses a pipeline description from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assembly: %w", err)
	}
	return Parse(data)
}

func (c *Config) validate() error {
	if len(c.Buffers) == 0 {
		return fmt.Errorf("assembly: no buffers declared")
	}
	if len(c.Blocks) == 0 {
		return fmt.Errorf("assembly: no blocks declared")
	}

	seen := map[string]bool{}
	for i, b := range c.Buffers {
		if b.Name == "" {
			return fmt.Errorf("assembly: buffer %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("assembly: duplicate buffer %q", b.Name)
		}
		seen[b.Name] = true
		if !elemTypes[b.Type] {
			return fmt.Errorf("assembly: buffer %q: unknown element type %q", b.Name, b.Type)
		}
		if b.Size < 1 {
			return fmt.Errorf("assembly: buffer %q: size %d", b.Name, b.Size)
		}
	}

	names := map[string]bool{}
	for i := range c.Blocks {
		b := &c.Blocks[i]
		if !blockKinds[b.Kind] {
			return fmt.Errorf("assembly: block %d: unknown kind %q", i, b.Kind)
		}
		if b.Name == "" {
			b.Name = fmt.Sprintf("%s-%d", b.Kind, i)
		}
		if names[b.Name] {
			return fmt.Errorf("assembly: duplicate block %q", b.Name)
		}
		names[b.Name] = true
		for _, ref := range b.bufferRefs() {
			if ref.name == "" {
				return fmt.Errorf("assembly: block %q: missing %s buffer", b.Name, ref.role)
			}
			if !seen[ref.name] {
				return fmt.Errorf("assembly: block %q: %s buffer %q not declared", b.Name, ref.role, ref.name)
			}
		}
	}
	return nil
}

type bufferRef struct {
	role string
	name string
}

// bufferRefs lists the buffer connections the block's kind requires.
func (b *BlockSpec) bufferRefs() []bufferRef {
	switch b.Kind {
	case KindStreamSource:
		return []bufferRef{{"output", b.Output}}
	case KindStreamSink, KindTextFormatter, KindCArrayFormatter:
		return []bufferRef{{"input", b.Input}}
	case KindRateEstimator:
		return []bufferRef{{"num", b.Num}, {"den", b.Den}, {"output", b.Output}}
	default: // counter, decimator, serializer
		return []bufferRef{{"input", b.Input}, {"output", b.Output}}
	}
}
