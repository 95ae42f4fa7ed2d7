// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "github.com/go-gl/mathgl/mgl32"

// Pose is a rigid world transform: a position and an Euler rotation in degrees.
type Pose struct {
	// Position is the world-space position.
	Position mgl32.Vec3
	// Rotation is the world-space rotation in degrees around X, Y and Z (applied as Ry * Rx * Rz).
	Rotation mgl32.Vec3
}

// LerpPose interpolates position linearly and rotation per axis along the shortest angle.
//
// Parameters:
//   - a: start pose
//   - b: end pose
//   - t: interpolation factor
//
// Returns:
//   - Pose: the interpolated pose
func LerpPose(a, b Pose, t float32) Pose {
	return Pose{
		Position: Lerp(a.Position, b.Position, t),
		Rotation: LerpEuler(a.Rotation, b.Rotation, t),
	}
}
