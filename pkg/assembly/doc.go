// Package assembly builds runnable pipelines from declarative YAML
// descriptions.
//
// A pipeline description declares typed, bounded buffers and the blocks
// wired between them:
//
//	name: iq-decimate
//	buffers:
//	  - name: raw
//	    type: u8
//	    size: 4096
//	  - name: samples
//	    type: i16
//	    size: 2048
//	  - name: keep
//	    type: i16
//	    size: 2048
//	blocks:
//	  - kind: stream-source
//	    file: capture.bin
//	    loop: true
//	    output: raw
//	  - kind: serializer
//	    input: raw
//	    output: samples
//	  - kind: decimator
//	    factor: 4
//	    input: samples
//	    output: keep
//	  - kind: text-formatter
//	    format: "%d\n"
//	    input: keep
//	    file: "-"
//
// Load or Parse a description, Build it into a Pipeline, then Run it:
//
//	cfg, err := assembly.Load("pipeline.yaml")
//	if err != nil {
//		return err
//	}
//	p, err := assembly.Build(cfg)
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//	return p.Run()
//
// Wiring mistakes (unknown buffers, element type mismatches, incompatible
// serializer widths) are reported by Build with the offending block and
// buffer names; nothing starts running until the whole pipeline checks
// out.
package assembly
