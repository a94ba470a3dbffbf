package patcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const controllerExcerpt = `public class CVirtPlayerController : MonoBehaviour
{
	public Vector3 MotionVector { get; private set; }

	void FixedUpdate()
	{
		Quaternion globalOrientation = transform.rotation;
		Vector3 motionVector = globalOrientation * movement;
		MotionVector = motionVector;
	}
}
`

func TestOrientationFieldsExample(t *testing.T) {
	in := []string{
		"public Vector3 MotionVector { get; private set; }\n",
		"Vector3 motionVector = globalOrientation * movement;\n",
	}

	out, res := OrientationFields(in)

	want := []string{
		"public Vector3 MotionVector { get; private set; }\n",
		"\n",
		OrientationComment + "\n",
		OrientationField + "\n",
		OrientationAssign + "\n",
		"Vector3 motionVector = globalOrientation * movement;\n",
	}
	assert.Equal(t, want, out)
	assert.True(t, res.Field)
	assert.True(t, res.Assignment)
	assert.Equal(t, 4, res.Inserted)
	assert.Empty(t, res.Missing)
}

func TestOrientationFieldsIdempotent(t *testing.T) {
	once, first := OrientationFields(SplitLines(controllerExcerpt))
	require.True(t, first.Satisfied())
	require.True(t, first.Changed())

	twice, second := OrientationFields(once)
	assert.Equal(t, once, twice)
	assert.True(t, second.Satisfied())
	assert.False(t, second.Changed())
}

func TestOrientationFieldsInsertsOncePerAnchor(t *testing.T) {
	in := []string{
		"public Vector3 MotionVector { get; private set; }\n",
		"public Vector3 MotionVector { get; private set; }\n",
		"Vector3 motionVector = globalOrientation * movement;\n",
		"Vector3 motionVector = globalOrientation * movement;\n",
	}

	out, res := OrientationFields(in)

	assert.Equal(t, 1, count(out, OrientationField+"\n"))
	assert.Equal(t, 1, count(out, OrientationAssign+"\n"))
	assert.Equal(t, len(in)+4, len(out))
	assert.Equal(t, 4, res.Inserted)
}

func TestOrientationFieldsPreservesOrder(t *testing.T) {
	in := SplitLines(controllerExcerpt)
	out, _ := OrientationFields(in)

	// Every original line must appear as a subsequence of the output.
	j := 0
	for _, line := range out {
		if j < len(in) && line == in[j] {
			j++
		}
	}
	assert.Equal(t, len(in), j)
}

func TestOrientationFieldsDetectsExistingEdits(t *testing.T) {
	t.Run("field declared elsewhere", func(t *testing.T) {
		in := []string{
			OrientationField + "\n",
			"public Vector3 MotionVector { get; private set; }\n",
		}
		out, res := OrientationFields(in)
		assert.Equal(t, in, out)
		assert.True(t, res.Field)
		assert.False(t, res.Assignment)
		assert.Equal(t, []string{"GlobalOrientation assignment"}, res.Missing)
	})

	t.Run("assignment with other indentation", func(t *testing.T) {
		in := []string{
			"\tGlobalOrientation = globalOrientation;   \n",
			"Vector3 motionVector = globalOrientation * movement;\n",
		}
		out, res := OrientationFields(in)
		assert.Equal(t, in, out)
		assert.True(t, res.Assignment)
		assert.False(t, res.Field)
	})

	t.Run("assignment inside a longer line is not a match", func(t *testing.T) {
		in := []string{
			"// GlobalOrientation = globalOrientation;\n",
			"Vector3 motionVector = globalOrientation * movement;\n",
		}
		out, res := OrientationFields(in)
		assert.Equal(t, OrientationAssign+"\n", out[1])
		assert.True(t, res.Assignment)
		assert.Equal(t, 1, res.Inserted)
	})
}

func TestOrientationFieldsWithoutAnchors(t *testing.T) {
	in := []string{"namespace Foo {}\n"}
	out, res := OrientationFields(in)

	assert.Equal(t, in, out)
	assert.False(t, res.Satisfied())
	assert.ElementsMatch(t, []string{"GlobalOrientation field", "GlobalOrientation assignment"}, res.Missing)
}

func TestOrientationFieldsDoesNotModifyInput(t *testing.T) {
	in := SplitLines(controllerExcerpt)
	snapshot := append([]string(nil), in...)
	OrientationFields(in)
	assert.Equal(t, snapshot, in)
}

func TestApplyKeepsCRLF(t *testing.T) {
	in := []string{
		"public Vector3 MotionVector { get; private set; }\r\n",
		"Vector3 motionVector = globalOrientation * movement;\r\n",
	}
	out, res := OrientationFields(in)
	require.True(t, res.Satisfied())
	for _, line := range out {
		assert.True(t, strings.HasSuffix(line, "\r\n"), "line %q", line)
	}
}

func TestApplyPlacement(t *testing.T) {
	in := []string{"a\n", "anchor\n", "b\n"}

	after, st := Apply(in, Edit{Name: "after", Anchor: "anchor", Lines: []string{"x"}, Placement: After})
	assert.Equal(t, []string{"a\n", "anchor\n", "x\n", "b\n"}, after)
	assert.True(t, st[0].Inserted)

	before, _ := Apply(in, Edit{Name: "before", Anchor: "anchor", Lines: []string{"x"}, Placement: Before})
	assert.Equal(t, []string{"a\n", "x\n", "anchor\n", "b\n"}, before)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"terminated", "a\nb\n", []string{"a\n", "b\n"}},
		{"unterminated tail", "a\nb", []string{"a\n", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a\r\n", "b\r\n"}},
		{"blank lines", "\n\n", []string{"\n", "\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, strings.Join(got, ""))
		})
	}
}

func count(lines []string, s string) int {
	n := 0
	for _, l := range lines {
		if l == s {
			n++
		}
	}
	return n
}
