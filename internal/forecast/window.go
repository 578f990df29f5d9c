package forecast

// Model input geometry: the last Frames snapshots of FrameFeatures
// features each, flattened row-major.
const (
	Frames        = 60
	FrameFeatures = 4
)

// Frame is one feature snapshot: the imbalance of both books plus the
// leader price kinematics.
type Frame struct {
	LeaderOBI   float64
	FollowerOBI float64
	Velocity    float64 // leader price velocity, $/s
	Accel       float64 // leader price acceleration, $/s²
}

// Window keeps the most recent Frames snapshots for model input.
// Not safe for concurrent use; the engine owns it.
type Window struct {
	frames []Frame
}

func NewWindow() *Window {
	return &Window{frames: make([]Frame, 0, Frames)}
}

func (w *Window) Push(f Frame) {
	w.frames = append(w.frames, f)
	if len(w.frames) > Frames {
		w.frames = w.frames[len(w.frames)-Frames:]
	}
}

// Ready reports whether a full window has accumulated.
func (w *Window) Ready() bool { return len(w.frames) >= Frames }

func (w *Window) Len() int { return len(w.frames) }

// Flatten lays the window out as the model expects, oldest frame
// first.
func (w *Window) Flatten() []float32 {
	out := make([]float32, 0, Frames*FrameFeatures)
	for _, f := range w.frames {
		out = append(out,
			float32(f.LeaderOBI),
			float32(f.FollowerOBI),
			float32(f.Velocity),
			float32(f.Accel),
		)
	}
	return out
}
