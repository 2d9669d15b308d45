package game

// tally is a plurality counter that remembers first-seen order, making
// tie-breaks deterministic and user-observable
type tally struct {
	counts map[int]int
	order  []int
}

func newTally() *tally {
	return &tally{counts: map[int]int{}}
}

func (t *tally) add(target int) {
	if _, seen := t.counts[target]; !seen {
		t.order = append(t.order, target)
	}
	t.counts[target]++
}

func (t *tally) empty() bool {
	return len(t.order) == 0
}

// top returns the most-chosen target. Ties resolve to the first-seen
// target; unique reports whether the top count was unshared.
func (t *tally) top() (target, count int, unique bool) {
	if t.empty() {
		return 0, 0, false
	}

	target = t.order[0]
	count = t.counts[target]
	for _, candidate := range t.order[1:] {
		if t.counts[candidate] > count {
			target = candidate
			count = t.counts[candidate]
		}
	}

	shared := 0
	for _, c := range t.counts {
		if c == count {
			shared++
		}
	}

	return target, count, shared == 1
}
