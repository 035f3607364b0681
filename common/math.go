package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. Yaw rotates about it.
var Up = mgl64.Vec3{0, 1, 0}

// Forward is the local facing axis of an unrotated transform.
var Forward = mgl64.Vec3{0, 0, 1}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Horizontal drops the vertical component of the vector from -> to.
func Horizontal(from, to mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{to.X() - from.X(), 0, to.Z() - from.Z()}
}

// LookRotation returns the yaw-only rotation whose forward axis points along
// dir. A zero direction yields the identity rotation.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	if dir.X() == 0 && dir.Z() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Atan2(dir.X(), dir.Z()), Up)
}

// Yaw returns the heading of q in degrees, normalized to [0, 360).
func Yaw(q mgl64.Quat) float64 {
	f := q.Rotate(Forward)
	return NormalizeDegrees(mgl64.RadToDeg(math.Atan2(f.X(), f.Z())))
}

func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Nlerp interpolates along the shorter arc between a and b and renormalizes.
// t is clamped to [0, 1].
func Nlerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatNlerp(a, b, Clamp01(t))
}

// FacingAchieved reports whether current lies in the closed band
// [target-tol, target+tol]. Angles are compared as given, without wrapping.
func FacingAchieved(current, target, tol float64) bool {
	return current >= target-tol && current <= target+tol
}
