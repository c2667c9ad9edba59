package pose

// Landmark indices of the 33 point body model produced by the detector.
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28

	LandmarkCount = 33
)

// Point is a planar coordinate in normalized image space.
type Point struct {
	X float64
	Y float64
}

// Landmark is a single detected body point. X and Y are normalized to [0,1],
// Z is the detector's relative depth estimate.
type Landmark struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Point drops the depth component.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

// LandmarkSet is the ordered output of one detection. It is never mutated after
// the detector returns it.
type LandmarkSet []Landmark

// At returns the landmark at idx, false when the set is too short.
func (s LandmarkSet) At(idx int) (Landmark, bool) {
	if idx < 0 || idx >= len(s) {
		return Landmark{}, false
	}
	return s[idx], true
}
