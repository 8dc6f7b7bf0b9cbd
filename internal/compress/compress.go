// Package compress partitions year sets into minimal arithmetic-progression
// runs. A movable holiday lands on the same calendar date in an irregular
// subset of the window's years; regrouping that subset into periodic runs is
// what lets one recurrence rule stand in for dozens of one-off events.
package compress

import "sort"

// Run is one arithmetic progression of years: Start, Start+Interval, … with
// Count members. Interval 0 with Count 1 denotes a singleton.
type Run struct {
	Start    int
	Interval int
	Count    int
}

// Years expands the run back into its member years.
func (r Run) Years() []int {
	years := make([]int, r.Count)
	for i := range years {
		years[i] = r.Start + i*r.Interval
	}
	return years
}

// Partition splits the given years (duplicates tolerated, order ignored)
// into runs covering every year exactly once. The result is deterministic
// for a given input set: runs are discovered greedily, longest progression
// first from the smallest remaining year, ties broken toward the smallest
// interval.
//
// The algorithm is total: a set with no repeating spacing degrades to
// all-singleton output, which is a valid result, not an error.
func Partition(years []int) []Run {
	pool := make(map[int]struct{}, len(years))
	for _, y := range years {
		pool[y] = struct{}{}
	}
	order := make([]int, 0, len(pool))
	for y := range pool {
		order = append(order, y)
	}
	sort.Ints(order)

	var runs []Run
	for len(pool) > 0 {
		s := smallest(order, pool)

		if len(pool) == 1 {
			runs = append(runs, Run{Start: s, Interval: 0, Count: 1})
			delete(pool, s)
			continue
		}

		// Try every remaining year t > s as the second member of a
		// progression with interval t-s, extending greedily while the
		// next member is still in the pool. Ascending t means ascending
		// interval, so strict improvement keeps the smallest interval
		// among equally long candidates.
		var best []int
		for _, t := range order {
			if t <= s {
				continue
			}
			if _, ok := pool[t]; !ok {
				continue
			}
			d := t - s
			cand := []int{s, t}
			for next := t + d; ; next += d {
				if _, ok := pool[next]; !ok {
					break
				}
				cand = append(cand, next)
			}
			if len(cand) > len(best) {
				best = cand
			}
		}

		if len(best) > 1 {
			runs = append(runs, Run{Start: s, Interval: best[1] - s, Count: len(best)})
			for _, y := range best {
				delete(pool, y)
			}
		} else {
			runs = append(runs, Run{Start: s, Interval: 0, Count: 1})
			delete(pool, s)
		}
	}
	return runs
}

func smallest(order []int, pool map[int]struct{}) int {
	for _, y := range order {
		if _, ok := pool[y]; ok {
			return y
		}
	}
	// Unreachable while the caller checks len(pool) > 0.
	return 0
}
