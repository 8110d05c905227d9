package main

import "math"

// wrap maps an unbounded coordinate onto [0, size), re-entering on the
// opposite edge.
func wrap(pos float64, size int) int {
	if size <= 0 {
		return 0
	}
	p := math.Mod(math.Floor(pos), float64(size))
	if p < 0 {
		p += float64(size)
	}
	return int(p)
}

// reflect maps an unbounded coordinate onto [0, size), bouncing off both
// edges.
func reflect(pos float64, size int) int {
	if size <= 1 {
		return 0
	}
	span := float64(size - 1)
	period := 2 * span
	p := math.Mod(math.Abs(pos), period)
	if p > span {
		p = period - p
	}
	return int(math.Round(p))
}

// clampCell keeps v within [0, size).
func clampCell(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}
