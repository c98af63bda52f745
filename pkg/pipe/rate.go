package pipe

// DefaultSampleSize is the default minimum denominator total per reported
// rate.
const DefaultSampleSize = 10000

// RateEstimator accumulates two running counts consumed in lockstep and
// emits their ratio once the denominator total reaches a sample-size
// threshold, then resets both accumulators.
//
// The reporting cadence is data-rate-dependent: the threshold is a minimum
// number of denominator samples per reported rate, not a time window.
type RateEstimator struct {
	// SampleSize is the denominator total that triggers a report.
	// Defaults to DefaultSampleSize.
	SampleSize int

	name     string
	num, den *Buffer[int]
	out      *Buffer[float32]
	accNum   int64
	accDen   int64
}

// NewRateEstimator creates a rate estimator block reading paired counts
// from num and den and emitting ratios into out.
func NewRateEstimator(sch *Scheduler, name string, num, den *Buffer[int], out *Buffer[float32]) *RateEstimator {
	r := &RateEstimator{
		SampleSize: DefaultSampleSize,
		name:       name,
		num:        num,
		den:        den,
		out:        out,
	}
	sch.addBlock(r)
	return r
}

// Name implements Block.
func (r *RateEstimator) Name() string { return r.name }

// Step implements Block.
func (r *RateEstimator) Step() error {
	if r.out.Writable() < 1 {
		return nil
	}
	count := min(r.num.Readable(), r.den.Readable())
	ns, ds := r.num.ReadSlice(), r.den.ReadSlice()
	for i := 0; i < count; i++ {
		r.accNum += int64(ns[i])
		r.accDen += int64(ds[i])
	}
	r.num.CommitRead(count)
	r.den.CommitRead(count)

	if r.accDen > 0 && r.accDen >= int64(r.SampleSize) {
		r.out.WriteSlice()[0] = float32(r.accNum) / float32(r.accDen)
		r.out.CommitWrite(1)
		r.accNum, r.accDen = 0, 0
	}
	return nil
}
