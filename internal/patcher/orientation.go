package patcher

// Literals taken from CVirtPlayerController.cs in the Cyberith SDK.
const (
	MotionVectorAnchor  = "public Vector3 MotionVector { get; private set; }"
	OrientationComment  = "    // Added in order to be able to extract the player rotation angle"
	OrientationField    = "    public Quaternion GlobalOrientation { get; private set; }"
	OrientationAssign   = "        GlobalOrientation = globalOrientation;"
	MotionVectorCompute = "Vector3 motionVector = globalOrientation * movement;"
)

// Result reports whether each orientation edit is present after patching and
// how many lines this run added.
type Result struct {
	Field      bool
	Assignment bool
	Inserted   int

	// Missing names the edits whose anchor was not found.
	Missing []string
}

// Satisfied is true when both edits are in place.
func (r Result) Satisfied() bool {
	return r.Field && r.Assignment
}

// Changed is true when the output differs from the input.
func (r Result) Changed() bool {
	return r.Inserted > 0
}

// Func transforms the lines of one file. Implementations must not modify the
// input slice.
type Func func(lines []string) ([]string, Result)

var (
	orientationFieldEdit = Edit{
		Name:      "GlobalOrientation field",
		Anchor:    MotionVectorAnchor,
		Lines:     []string{"", OrientationComment, OrientationField},
		Placement: After,
		Present:   Contains(OrientationField),
	}
	orientationAssignEdit = Edit{
		Name:      "GlobalOrientation assignment",
		Anchor:    MotionVectorCompute,
		Lines:     []string{OrientationAssign},
		Placement: Before,
		Present:   EqualTrimmed(OrientationAssign),
	}
)

// OrientationFields exposes the player's global orientation on
// CVirtPlayerController: a GlobalOrientation property declared after
// MotionVector, and its assignment placed just before motionVector is
// computed.
func OrientationFields(lines []string) ([]string, Result) {
	out, statuses := Apply(lines, orientationFieldEdit, orientationAssignEdit)

	res := Result{
		Field:      statuses[0].OK(),
		Assignment: statuses[1].OK(),
	}
	for _, s := range statuses {
		if !s.OK() {
			res.Missing = append(res.Missing, s.Name)
		}
	}
	res.Inserted = len(out) - len(lines)
	return out, res
}
