package api

import "io"

// ProgressReader wraps a reader of known total length and reports the
// fraction read so far to a callback. Fractions are in [0.0, 1.0]; a
// zero-length total reports 1.0 on the first read.
type ProgressReader struct {
	r      io.Reader
	total  int64
	read   int64
	report func(float64)
}

// NewProgressReader wraps r. The callback may be nil, making the wrapper
// transparent.
func NewProgressReader(r io.Reader, total int64, report func(float64)) *ProgressReader {
	return &ProgressReader{r: r, total: total, report: report}
}

func (p *ProgressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.report != nil {
		p.read += int64(n)
		if p.total <= 0 {
			p.report(1.0)
		} else {
			frac := float64(p.read) / float64(p.total)
			if frac > 1.0 {
				frac = 1.0
			}
			p.report(frac)
		}
	}

	return n, err
}
