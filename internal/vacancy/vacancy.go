// Copyright 2024 The dat Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package vacancy tracks which double-array slots are free during
// construction, so the builder can answer "smallest free index greater than
// k" without a linear scan.
package vacancy

// List tracks, for every slot in [0, Len()), whether it is currently
// vacant. It answers NextFree queries in amortized O(1) using a
// path-compressed forwarding pointer at each used slot, the same technique
// union-find uses to collapse chains of already-visited nodes.
type List struct {
	next   []int
	vacant []bool
}

// New returns an empty List.
func New() *List {
	return &List{}
}

// Len returns the number of slots currently tracked.
func (l *List) Len() int {
	return len(l.vacant)
}

// GrowTo extends l so that slots up to (but not including) n are tracked.
// Newly tracked slots start out vacant. It is a no-op if n is not larger
// than the current length.
func (l *List) GrowTo(n int) {
	if n <= len(l.vacant) {
		return
	}
	old := len(l.vacant)

	next := make([]int, n)
	copy(next, l.next)
	vac := make([]bool, n)
	copy(vac, l.vacant)

	for i := old; i < n; i++ {
		next[i] = i
		vac[i] = true
	}

	l.next = next
	l.vacant = vac
}

// find returns the smallest vacant index >= idx, compressing the forwarding
// chain for every used slot it passes through along the way.
func (l *List) find(idx int) int {
	if idx >= len(l.vacant) {
		return idx
	}
	var path []int
	for idx < len(l.vacant) && !l.vacant[idx] {
		path = append(path, idx)
		idx = l.next[idx]
	}
	for _, p := range path {
		l.next[p] = idx
	}
	return idx
}

// NextFree returns the smallest vacant index strictly greater than i. If
// that index lies beyond the tracked range, it is still well defined
// (everything past the tracked range is implicitly vacant) and the caller
// is expected to GrowTo before using it.
func (l *List) NextFree(i int) int {
	return l.find(i + 1)
}

// MarkUsed removes i from the vacant set, growing l first if necessary.
func (l *List) MarkUsed(i int) {
	if i >= len(l.vacant) {
		l.GrowTo(i + 1)
	}
	if !l.vacant[i] {
		return
	}
	l.vacant[i] = false
	l.next[i] = i + 1
}

// IsVacant reports whether slot i is vacant. Slots beyond the tracked range
// are considered vacant.
func (l *List) IsVacant(i int) bool {
	if i >= len(l.vacant) {
		return true
	}
	return l.vacant[i]
}
