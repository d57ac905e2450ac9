package porter

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pku-porter/internal/alerts"
)

// target is a toy encoding with two fields written through choices.
type target struct {
	pid   uint32
	level int
	log   []string
}

func choiceSchedule() *Schedule[*target] {
	return MustSchedule([]Directive[*target]{
		{
			Name:  "PID",
			Phase: PhaseFirstPass,
			Run: func(t *target, r *Report) error {
				r.Alert(alerts.New("PID", alerts.Mismatch, "The PID does not match the nature."))
				r.Defer(alerts.NewChoice("PID", "Keep or regenerate?", []alerts.Candidate[uint32]{
					{Name: "Keep", Value: 1},
					{Name: "Generate", Value: 2},
				}, func(v uint32) {
					t.pid = v
					t.log = append(t.log, "PID")
				}))
				return nil
			},
		},
		{
			Name:  "Experience",
			Phase: PhaseFirstPass,
			Run: func(t *target, r *Report) error {
				r.Defer(alerts.Single("Experience", 50, func(v int) {
					t.level = v
					t.log = append(t.log, "Experience")
				}))
				return nil
			},
		},
	})
}

func newSession(t *testing.T) (*Session, *target) {
	t.Helper()
	tgt := &target{}
	s, err := Run("toy", "Mew", choiceSchedule(), tgt, func() ([]byte, error) {
		return []byte{byte(tgt.pid), byte(tgt.level)}, nil
	}, nil)
	require.NoError(t, err)
	return s, tgt
}

func TestSession_SingleOptionNeverSurfaces(t *testing.T) {
	s, _ := newSession(t)

	require.Len(t, s.Choices(), 1)
	assert.Equal(t, "PID", s.Choices()[0].Category)
	require.Len(t, s.Pending(), 1)
	assert.False(t, s.Ready())
	assert.Len(t, s.Alerts(), 1)
}

func TestSession_FinalizeRequiresResolution(t *testing.T) {
	s, tgt := newSession(t)

	_, err := s.Finalize()
	require.Error(t, err)
	var ue *UnresolvedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, []string{"PID"}, ue.Categories)
	assert.Zero(t, tgt.pid)
	assert.Zero(t, tgt.level, "no setter runs while choices are pending")
}

func TestSession_ResolveThenFinalize(t *testing.T) {
	s, tgt := newSession(t)

	require.NoError(t, s.Resolve("PID", 1))
	assert.Zero(t, tgt.pid, "resolution is applied at finalization")
	assert.True(t, s.Ready())

	out, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 50}, out)
	assert.Equal(t, []string{"PID", "Experience"}, tgt.log, "setters run in declaration order")

	again, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Len(t, tgt.log, 2)
}

func TestSession_OutOfRangeLeavesEncodingUntouched(t *testing.T) {
	s, tgt := newSession(t)

	err := s.Resolve("PID", 5)
	var ie *alerts.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Zero(t, tgt.pid)
	assert.Len(t, s.Pending(), 1)
}

func TestSession_ResolveErrors(t *testing.T) {
	s, _ := newSession(t)

	var uce *UnknownChoiceError
	require.True(t, errors.As(s.Resolve("Ghost", 0), &uce))

	assert.True(t, errors.Is(s.Resolve("Experience", 0), alerts.ErrAlreadyResolved),
		"automatic choices are already resolved")

	require.NoError(t, s.Resolve("PID", 0))
	assert.True(t, errors.Is(s.Resolve("PID", 1), alerts.ErrAlreadyResolved))
}

func TestSession_ResolveFirst(t *testing.T) {
	s, tgt := newSession(t)
	s.ResolveFirst()
	_, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tgt.pid)
}

func TestSession_ResolveMap(t *testing.T) {
	s, tgt := newSession(t)
	require.NoError(t, s.ResolveMap(map[string]int{"PID": 1}))
	require.NoError(t, s.ResolveMap(nil))
	_, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tgt.pid)

	s, _ = newSession(t)
	var uce *UnknownChoiceError
	require.True(t, errors.As(s.ResolveMap(map[string]int{"Ghost": 0, "PID": 0}), &uce))
	assert.Equal(t, "Ghost", uce.Category)
	assert.False(t, s.Ready(), "Ghost sorts first and stops resolution")
}

func TestRun_HardFailureExposesNothing(t *testing.T) {
	sched := MustSchedule([]Directive[*target]{{
		Name:  "PID",
		Phase: PhaseFirstPass,
		Run:   func(*target, *Report) error { return errors.New("exhausted") },
	}})
	s, err := Run("toy", "Mew", sched, &target{}, func() ([]byte, error) { return nil, nil }, nil)
	require.Error(t, err)
	assert.Nil(t, s)
}
