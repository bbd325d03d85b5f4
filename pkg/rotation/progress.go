package rotation

// ProgressMax is the upper bound of a progress value.
const ProgressMax = 100

// Progress is a cosmetic counter in [0, ProgressMax] that grows by a fixed
// step and wraps to zero when the next step would overshoot.
//
// Progress is not safe for concurrent use; a Controller guards its own.
type Progress struct {
	step  int
	value int
}

// NewProgress creates a progress counter starting at zero.
func NewProgress(step int) (*Progress, error) {
	if step <= 0 || step > ProgressMax {
		return nil, ErrInvalidStep
	}
	return &Progress{step: step}, nil
}

// Tick advances the counter by one step and returns the new value.
func (p *Progress) Tick() int {
	if p.value+p.step > ProgressMax {
		p.value = 0
	} else {
		p.value += p.step
	}
	return p.value
}

// Value returns the current value
func (p *Progress) Value() int {
	return p.value
}

// Reset sets the counter back to zero
func (p *Progress) Reset() {
	p.value = 0
}

// Step returns the increment applied on each tick
func (p *Progress) Step() int {
	return p.step
}
