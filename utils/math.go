package utils

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TriangleNormal returns the unnormalized face normal, its length is twice the triangle area.
func TriangleNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// NormalizeOr returns v normalized, or fallback for degenerate vectors.
func NormalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-12 {
		return fallback
	}
	return v.Normalize()
}
