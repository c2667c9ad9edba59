package pose

import "math"

// collinearEpsilon is the relative cross product below which two rays are
// treated as parallel.
const collinearEpsilon = 1e-12

// Joint names the vertex and the two neighbours that form a joint angle.
type Joint struct {
	Name   string
	A      int
	Vertex int
	C      int
}

// Joints is the static joint map. Indices follow the detector's body model.
var Joints = []Joint{
	{Name: "left_elbow", A: LeftShoulder, Vertex: LeftElbow, C: LeftWrist},
	{Name: "right_elbow", A: RightShoulder, Vertex: RightElbow, C: RightWrist},
	{Name: "left_shoulder", A: LeftElbow, Vertex: LeftShoulder, C: LeftHip},
	{Name: "right_shoulder", A: RightElbow, Vertex: RightShoulder, C: RightHip},
	{Name: "left_hip", A: LeftShoulder, Vertex: LeftHip, C: LeftKnee},
	{Name: "right_hip", A: RightShoulder, Vertex: RightHip, C: RightKnee},
	{Name: "left_knee", A: LeftHip, Vertex: LeftKnee, C: LeftAnkle},
	{Name: "right_knee", A: RightHip, Vertex: RightKnee, C: RightAnkle},
}

// AngleTable maps a joint name to its angle in degrees, always in [0,180].
type AngleTable map[string]float64

// Clone returns an independent copy.
func (t AngleTable) Clone() AngleTable {
	out := make(AngleTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ComputeAngle returns the angle at b formed by the rays b->a and b->c.
// Coincident points return 0 so a degenerate frame never aborts the pipeline.
func ComputeAngle(a, b, c Point) float64 {
	bax, bay := a.X-b.X, a.Y-b.Y
	bcx, bcy := c.X-b.X, c.Y-b.Y

	lenBA := math.Hypot(bax, bay)
	lenBC := math.Hypot(bcx, bcy)
	if lenBA == 0 || lenBC == 0 || math.IsNaN(lenBA) || math.IsNaN(lenBC) {
		return 0
	}

	// Collinear rays resolve exactly instead of going through atan2 rounding.
	cross := bax*bcy - bay*bcx
	if math.Abs(cross) <= collinearEpsilon*lenBA*lenBC {
		if bax*bcx+bay*bcy > 0 {
			return 0
		}
		return 180
	}

	radians := math.Atan2(bcy, bcx) - math.Atan2(bay, bax)
	degrees := math.Abs(radians * 180.0 / math.Pi)
	if degrees > 180 {
		degrees = 360 - degrees
	}
	return clampDegrees(degrees)
}

// JointAngles computes every joint of the static map that the set covers.
func JointAngles(set LandmarkSet) AngleTable {
	angles := make(AngleTable, len(Joints))
	for _, j := range Joints {
		a, okA := set.At(j.A)
		b, okB := set.At(j.Vertex)
		c, okC := set.At(j.C)
		if !okA || !okB || !okC {
			continue
		}
		angles[j.Name] = ComputeAngle(a.Point(), b.Point(), c.Point())
	}
	return angles
}

func clampDegrees(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 180 {
		return 180
	}
	return v
}
