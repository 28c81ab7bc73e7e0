// Package domain defines the core business entities for changegear.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Shaft: one axle stage carrying one or two gears
//   - GearTrain: an ordered sequence of shafts with derived ratio, load and spacing
//   - CalculationParams: the validated input of a gear train search
//   - Calculation: a finished, ranked search result
//
// Interference checking and train ranking live here as pure functions
// because both the search engine and the outer adapters need them.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
