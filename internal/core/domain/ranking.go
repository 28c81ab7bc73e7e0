package domain

import (
	"cmp"
	"slices"
)

// CompareTrains returns a comparator ordering trains by how closely their
// multiplier matches target, then by ascending MaxForce.
func CompareTrains(target float64) func(a, b GearTrain) int {
	return func(a, b GearTrain) int {
		if c := cmp.Compare(a.Deviation(target), b.Deviation(target)); c != 0 {
			return c
		}
		return cmp.Compare(a.MaxForce, b.MaxForce)
	}
}

// RankTrains sorts trains in place, best first. Trains equal on both keys
// keep their relative order.
func RankTrains(trains []GearTrain, target float64) {
	slices.SortStableFunc(trains, CompareTrains(target))
}
