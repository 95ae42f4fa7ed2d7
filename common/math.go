package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Lerp linearly interpolates between two positions.
// The factor is not clamped, callers that need [0, 1] should pass it through Clamp01 first.
//
// Parameters:
//   - a: start position
//   - b: end position
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Vec3: a + (b - a) * t
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp01 clamps t to the [0, 1] range. NaN is mapped to 0.
//
// Parameters:
//   - t: value to clamp
//
// Returns:
//   - float32: the clamped value
func Clamp01(t float32) float32 {
	if t != t {
		return 0
	}
	return mgl32.Clamp(t, 0, 1)
}

// Smoothstep remaps t to 3t² - 2t³ after clamping it to [0, 1].
// The curve has zero velocity at both endpoints and returns exactly 0 and 1 at the ends.
//
// Parameters:
//   - t: linear progress
//
// Returns:
//   - float32: eased progress in [0, 1]
func Smoothstep(t float32) float32 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
//
// Parameters:
//   - deg: angle in degrees
//
// Returns:
//   - float32: the equivalent angle in [0, 360)
func NormalizeAngle(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// DeltaAngle returns the shortest signed difference from a to b in degrees, in (-180, 180].
//
// Parameters:
//   - a: start angle in degrees
//   - b: end angle in degrees
//
// Returns:
//   - float32: the shortest signed delta
func DeltaAngle(a, b float32) float32 {
	d := NormalizeAngle(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// LerpAngle interpolates between two angles in degrees along the shortest arc,
// so 350 -> 10 travels 20 degrees through 0 instead of 340 degrees backwards.
//
// Parameters:
//   - a: start angle in degrees
//   - b: end angle in degrees
//   - t: interpolation factor
//
// Returns:
//   - float32: the interpolated angle (not wrapped)
func LerpAngle(a, b, t float32) float32 {
	return a + DeltaAngle(a, b)*t
}

// LerpEuler interpolates Euler rotations in degrees axis by axis using LerpAngle.
//
// Parameters:
//   - a: start rotation (pitch, yaw, roll)
//   - b: end rotation (pitch, yaw, roll)
//   - t: interpolation factor
//
// Returns:
//   - mgl32.Vec3: the interpolated rotation
func LerpEuler(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		LerpAngle(a[0], b[0], t),
		LerpAngle(a[1], b[1], t),
		LerpAngle(a[2], b[2], t),
	}
}

// EulerToQuat converts an Euler rotation in degrees to a quaternion.
// Rotations compose as R = Ry * Rx * Rz (yaw-pitch-roll), the same order the model matrices use.
//
// Parameters:
//   - euler: rotation in degrees around X, Y and Z
//
// Returns:
//   - mgl32.Quat: the equivalent unit quaternion
func EulerToQuat(euler mgl32.Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(euler[1]),
		mgl32.DegToRad(euler[0]),
		mgl32.DegToRad(euler[2]),
		mgl32.YXZ,
	)
}

// QuatToEuler converts a quaternion to Euler degrees in [0, 360) for the R = Ry * Rx * Rz order.
// At gimbal lock (pitch of ±90°) roll is folded into yaw and reported as 0.
//
// Parameters:
//   - q: rotation quaternion (need not be normalized)
//
// Returns:
//   - mgl32.Vec3: rotation in degrees around X, Y and Z
func QuatToEuler(q mgl32.Quat) mgl32.Vec3 {
	m := q.Normalize().Mat4()

	sx := mgl32.Clamp(-m.At(1, 2), -1, 1)
	x := math32.Asin(sx)

	var y, z float32
	if math32.Abs(sx) < 0.99999 {
		y = math32.Atan2(m.At(0, 2), m.At(2, 2))
		z = math32.Atan2(m.At(1, 0), m.At(1, 1))
	} else {
		y = math32.Atan2(-m.At(2, 0), m.At(0, 0))
	}

	return mgl32.Vec3{
		NormalizeAngle(mgl32.RadToDeg(x)),
		NormalizeAngle(mgl32.RadToDeg(y)),
		NormalizeAngle(mgl32.RadToDeg(z)),
	}
}

// SlerpEuler interpolates two Euler rotations along the shortest quaternion arc.
//
// Parameters:
//   - a: start rotation in degrees
//   - b: end rotation in degrees
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - mgl32.Vec3: the interpolated rotation in degrees
func SlerpEuler(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return QuatToEuler(mgl32.QuatSlerp(EulerToQuat(a), EulerToQuat(b), t))
}

// LocalToWorld transforms a point from a parent's local frame into world space.
// Parents are rigid (unit scale): world = position + rotation * local.
//
// Parameters:
//   - parent: the parent's world pose
//   - local: point in the parent's local frame
//
// Returns:
//   - mgl32.Vec3: the point in world space
func LocalToWorld(parent Pose, local mgl32.Vec3) mgl32.Vec3 {
	return parent.Position.Add(EulerToQuat(parent.Rotation).Rotate(local))
}

// WorldToLocal transforms a world-space point into a parent's local frame.
// It is the inverse of LocalToWorld.
//
// Parameters:
//   - parent: the parent's world pose
//   - world: point in world space
//
// Returns:
//   - mgl32.Vec3: the point in the parent's local frame
func WorldToLocal(parent Pose, world mgl32.Vec3) mgl32.Vec3 {
	return EulerToQuat(parent.Rotation).Inverse().Rotate(world.Sub(parent.Position))
}

// WorldToLocalRotation expresses a world rotation relative to a parent rotation.
//
// Parameters:
//   - parent: the parent's world rotation in degrees
//   - world: the child's world rotation in degrees
//
// Returns:
//   - mgl32.Quat: inverse(parent) * world
func WorldToLocalRotation(parent, world mgl32.Vec3) mgl32.Quat {
	return EulerToQuat(parent).Inverse().Mul(EulerToQuat(world)).Normalize()
}

// LocalToWorldRotation composes a parent rotation with a local rotation offset.
//
// Parameters:
//   - parent: the parent's world rotation in degrees
//   - local: rotation relative to the parent
//
// Returns:
//   - mgl32.Vec3: the child's world rotation in degrees
func LocalToWorldRotation(parent mgl32.Vec3, local mgl32.Quat) mgl32.Vec3 {
	return QuatToEuler(EulerToQuat(parent).Mul(local))
}
