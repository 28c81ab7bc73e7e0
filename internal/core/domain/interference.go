package domain

// MeshingDistance is the clearance available between two adjacent shafts,
// in teeth: the sum of the two gears that actually mesh.
func MeshingDistance(input, output Shaft) float64 {
	return float64(input.OutputGear + output.InputGear)
}

// NonMeshingDistance is the clearance the non-meshing gears of two adjacent
// shafts need, in teeth. A single-gear shaft contributes its spacer instead of
// a second gear, and both gears contribute one addendum.
func NonMeshingDistance(input, output Shaft, addendum float64) float64 {
	upstream := input.InputGear
	if input.IsSingle() {
		upstream = input.SpacerSize
	}
	downstream := output.OutputGear
	if output.IsSingle() {
		downstream = output.SpacerSize
	}
	return float64(upstream+downstream) + 2*addendum
}

// Interferes reports whether the non-meshing gears of input (upstream) and
// output (downstream) would collide. The check is directional:
// Interferes(a, b) says nothing about Interferes(b, a).
func Interferes(input, output Shaft, addendum float64) bool {
	return NonMeshingDistance(input, output, addendum) > MeshingDistance(input, output)
}
