// Package pipe provides interchangeable streaming blocks for pull-based
// dataflow pipelines.
//
// A pipeline is a set of blocks connected by bounded single-producer /
// single-consumer buffers. Each block consumes elements from zero or more
// input buffers and produces elements into zero or more output buffers,
// advancing as far as current buffer occupancy and capacity allow. A
// cooperative Scheduler sweeps all blocks repeatedly until a full pass
// makes no progress; backpressure falls out naturally, since a block whose
// output buffer is full simply does no work that round.
//
// Blocks never call each other. Data moves strictly buffer to buffer, and
// the whole pipeline runs on the calling goroutine; neither buffers nor
// blocks perform any locking.
//
// The stream blocks (StreamSource, StreamSink, Serializer) move raw
// element memory, so their element types must be fixed-size and must not
// contain pointers: integers, floats, Complex pairs, or flat structs of
// those.
//
// Example usage:
//
//	sch := pipe.New()
//	raw := pipe.NewBuffer[byte](sch, "raw", 4096)
//	samples := pipe.NewBuffer[int16](sch, "samples", 2048)
//
//	src := pipe.NewStreamSource(sch, "reader", f, raw)
//	src.Loop = true
//	ser, err := pipe.NewSerializer(sch, "widen", raw, samples)
//	if err != nil {
//		return err
//	}
//	pipe.NewStreamSink(sch, "writer", os.Stdout, samples)
//
//	if err := sch.Run(); err != nil {
//		return err
//	}
package pipe
