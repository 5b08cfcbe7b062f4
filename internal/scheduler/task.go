package scheduler

// Task is one pairwise addition of a wave: buf[Left] += buf[Right()].
//
// Every task carries the barrier of the wave that produced it, so a worker
// always signals the wave it actually worked on, even if the dispatcher has
// already moved on to allocate the next barrier.
type Task struct {
	Wave   int // 1-based wave number
	Left   int // index written by the task, in [0, Length/2)
	Length int // logical buffer length at the start of the wave

	barrier *WaveBarrier
}

// NewTask creates a task for wave b.Wave() bound to barrier b.
func NewTask(left, length int, b *WaveBarrier) Task {
	t := Task{Left: left, Length: length, barrier: b}
	if b != nil {
		t.Wave = b.Wave()
	}
	return t
}

// Right returns the index the task reads from, in [Length/2, Length).
func (t Task) Right() int {
	return t.Length - 1 - t.Left
}

// Barrier returns the barrier of the wave the task belongs to.
func (t Task) Barrier() *WaveBarrier {
	return t.barrier
}

// done reports completion to the task's own wave.
func (t Task) done() {
	if t.barrier != nil {
		t.barrier.Signal()
	}
}
