package motion

import "sync"

// VisibilityConfig configures a Detector.
type VisibilityConfig struct {
	// Threshold is the visible fraction of the region, 0..1, at which it
	// counts as in view. Zero means any overlap at all.
	Threshold float64
	// TriggerOnce latches the signal after the first time it turns true.
	TriggerOnce bool
}

// Region is a measured element rectangle in document coordinates.
type Region struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Viewport is a measurement of the visitor's window over the document.
type Viewport struct {
	ScrollY        float64 `json:"scrollY"`
	DocumentHeight float64 `json:"documentHeight"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// VisibleFraction returns how much of r lies inside the viewport, 0..1.
// A nil or zero-height region is never visible.
func VisibleFraction(r *Region, v Viewport) float64 {
	if r == nil || r.Height <= 0 || v.ViewportHeight <= 0 {
		return 0
	}
	top := max(r.Top, v.ScrollY)
	bottom := min(r.Top+r.Height, v.ScrollY+v.ViewportHeight)
	if bottom <= top {
		return 0
	}
	return clamp((bottom-top)/r.Height, 0, 1)
}

// Detector turns visible-fraction observations into an in-view signal.
type Detector struct {
	cfg VisibilityConfig

	mu        sync.Mutex
	visible   bool
	triggered chan struct{}
}

// NewDetector returns a detector that starts out not visible.
func NewDetector(cfg VisibilityConfig) *Detector {
	cfg.Threshold = clamp(cfg.Threshold, 0, 1)
	return &Detector{cfg: cfg, triggered: make(chan struct{})}
}

// Observe measures r against v and returns the updated signal.
func (d *Detector) Observe(r *Region, v Viewport) bool {
	return d.observe(VisibleFraction(r, v), r != nil && r.Height > 0)
}

// ObserveRatio feeds an already computed visible fraction.
func (d *Detector) ObserveRatio(ratio float64) bool {
	return d.observe(ratio, true)
}

func (d *Detector) observe(ratio float64, present bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.visible && d.cfg.TriggerOnce {
		return true
	}
	in := present && d.inView(ratio)
	if in && !d.visible {
		select {
		case <-d.triggered:
		default:
			close(d.triggered)
		}
	}
	d.visible = in
	return d.visible
}

func (d *Detector) inView(ratio float64) bool {
	if d.cfg.Threshold == 0 {
		return ratio > 0
	}
	return ratio >= d.cfg.Threshold
}

// Visible reports the current signal.
func (d *Detector) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// Triggered is closed the first time the signal turns true.
func (d *Detector) Triggered() <-chan struct{} {
	return d.triggered
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
