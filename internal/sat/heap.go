package sat

// vsidsHeap is a max-heap over variable activity, supporting the VSIDS
// decision heuristic (spec.md §4.4 Heuristics). Variables currently
// assigned are left in the heap (pushed back on backtrack) rather than
// removed eagerly; Solver.nextUnassigned skips over already-assigned
// entries it pops, which is
// the standard "lazy deletion" variant used by CDCL solvers the teacher
// pack's worker-queue code does not itself model, so this follows
// original_source/smt_core.c's var_heap directly.
type vsidsHeap struct {
	heap []int32 // variable indices
	pos  map[int32]int
	act  map[int32]float64
}

func newVSIDSHeap() *vsidsHeap {
	return &vsidsHeap{pos: make(map[int32]int), act: make(map[int32]float64)}
}

func (h *vsidsHeap) activity(v int32) float64 { return h.act[v] }

func (h *vsidsHeap) less(i, j int) bool {
	return h.act[h.heap[i]] > h.act[h.heap[j]]
}

func (h *vsidsHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i]] = i
	h.pos[h.heap[j]] = j
}

func (h *vsidsHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *vsidsHeap) siftDown(i int) {
	n := len(h.heap)
	for {
		l, r := 2*i+1, 2*i+2
		best := i
		if l < n && h.less(l, best) {
			best = l
		}
		if r < n && h.less(r, best) {
			best = r
		}
		if best == i {
			return
		}
		h.swap(i, best)
		i = best
	}
}

// push inserts v with the given activity, or updates its activity and
// re-heapifies if v is already present.
func (h *vsidsHeap) push(v int32, activity float64) {
	h.act[v] = activity
	if i, ok := h.pos[v]; ok {
		h.siftUp(i)
		h.siftDown(i)
		return
	}
	h.heap = append(h.heap, v)
	i := len(h.heap) - 1
	h.pos[v] = i
	h.siftUp(i)
}

// bump increases v's activity by inc and re-heapifies.
func (h *vsidsHeap) bump(v int32, inc float64) {
	h.act[v] += inc
	if i, ok := h.pos[v]; ok {
		h.siftUp(i)
	}
}

// rescale multiplies every tracked activity by factor (used when the
// running increment overflows, spec.md: "rescale all activities when
// any exceeds 10^20").
func (h *vsidsHeap) rescale(factor float64) {
	for v := range h.act {
		h.act[v] *= factor
	}
}

// pop removes and returns the highest-activity variable, or (0, false)
// if the heap is empty. Callers filter out already-assigned variables
// themselves (Solver.nextUnassigned loops on pop).
func (h *vsidsHeap) pop() (int32, bool) {
	if len(h.heap) == 0 {
		return 0, false
	}
	top := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, top)
	if len(h.heap) > 0 {
		h.siftDown(0)
	}
	return top, true
}
