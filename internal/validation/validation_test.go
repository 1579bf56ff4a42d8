package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("empty report has no error", func(t *testing.T) {
		var r Report
		r.Add(nil)
		assert.NoError(t, r.Err())
		assert.Equal(t, 0, r.Len())
	})

	t.Run("bundles every violation", func(t *testing.T) {
		var r Report
		r.Addf(Invariant, "modules[0].id", "duplicate identifier %q", "mag")
		r.Add(Errorf(LocalPathMissing, "monorepo-source", "path %q does not exist", "/nope"))
		r.Add(errors.New("yaml: line 3: mapping values are not allowed"))

		err := r.Err()
		require.Error(t, err)

		var rep *ReportError
		require.ErrorAs(t, err, &rep)
		assert.Len(t, rep.Errors, 3)
		assert.Contains(t, err.Error(), "3 violations")
		assert.Contains(t, err.Error(), `modules[0].id: duplicate identifier "mag"`)
		assert.Contains(t, err.Error(), `path "/nope" does not exist`)

		assert.Equal(t, []Kind{Invariant, LocalPathMissing, InputShape}, Kinds(err))
		assert.True(t, HasKind(err, LocalPathMissing))
		assert.False(t, HasKind(err, PipetteUnknown))
	})

	t.Run("flattens nested reports", func(t *testing.T) {
		var inner Report
		inner.Addf(PipetteUnknown, "robot.left-pipette", "unknown pipette")

		var outer Report
		outer.Add(fmt.Errorf("loading: %w", inner.Err()))
		outer.Addf(Invariant, "", "exactly one robot is required")

		assert.Equal(t, []Kind{PipetteUnknown, Invariant}, Kinds(outer.Err()))
	})
}

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invariant: robot is required", Errorf(Invariant, "", "robot is required").Error())
	assert.Equal(t, "remote ref invalid: monorepo-source: bad", Errorf(RemoteRefInvalid, "monorepo-source", "bad").Error())
	assert.False(t, IsValidation(errors.New("plain")))
}
