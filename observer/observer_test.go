package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCor struct {
	stage CorStage
	state CorState
}

func (c fakeCor) Stage() CorStage { return c.stage }
func (c fakeCor) State() CorState { return c.state }

func matchType(want string) func(fakeCor, *Observer[fakeCor], *Msg) bool {
	return func(_ fakeCor, _ *Observer[fakeCor], msg *Msg) bool {
		return msg.Type == want
	}
}

func TestDispatchInRegistrationOrderFiresAllMatches(t *testing.T) {
	t.Parallel()

	l := NewList[fakeCor]()
	var calls []string

	l.Register(&Observer[fakeCor]{
		Type:    "change",
		IsMatch: matchType("change"),
		Handle: func(_ fakeCor, _ *Observer[fakeCor], _ *Msg) (int, error) {
			calls = append(calls, "first")
			return 0, nil
		},
	})
	l.Register(&Observer[fakeCor]{
		Type:    "change",
		IsMatch: matchType("change"),
		Handle: func(_ fakeCor, _ *Observer[fakeCor], _ *Msg) (int, error) {
			calls = append(calls, "second")
			return 0, nil
		},
	})
	l.Register(&Observer[fakeCor]{
		Type:    "other",
		IsMatch: matchType("other"),
		Handle: func(_ fakeCor, _ *Observer[fakeCor], _ *Msg) (int, error) {
			calls = append(calls, "third")
			return 0, nil
		},
	})

	err := l.Dispatch(fakeCor{}, &Msg{Type: "change"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatchSkipsMismatchedStageAndState(t *testing.T) {
	t.Parallel()

	l := NewList[fakeCor]()
	fired := false
	l.Register(&Observer[fakeCor]{
		CorStage: 2,
		CorState: 3,
		IsMatch:  func(fakeCor, *Observer[fakeCor], *Msg) bool { return true },
		Handle: func(fakeCor, *Observer[fakeCor], *Msg) (int, error) {
			fired = true
			return 0, nil
		},
	})

	require.NoError(t, l.Dispatch(fakeCor{stage: 1, state: 3}, &Msg{}))
	assert.False(t, fired)

	require.NoError(t, l.Dispatch(fakeCor{stage: 2, state: 3}, &Msg{}))
	assert.True(t, fired)
}

func TestAutoRemoveRevokesAfterSuccessfulDispatch(t *testing.T) {
	t.Parallel()

	l := NewList[fakeCor]()
	revoked := false
	l.Register(&Observer[fakeCor]{
		AutoRemove: true,
		IsMatch:    func(fakeCor, *Observer[fakeCor], *Msg) bool { return true },
		Handle:     func(fakeCor, *Observer[fakeCor], *Msg) (int, error) { return 0, nil },
		OnRevoke:   func(fakeCor, *Observer[fakeCor]) { revoked = true },
	})

	require.Equal(t, 1, l.Len())
	require.NoError(t, l.Dispatch(fakeCor{}, &Msg{}))
	assert.Equal(t, 0, l.Len())
	assert.True(t, revoked)
}

func TestHandleErrorPreventsAutoRemove(t *testing.T) {
	t.Parallel()

	l := NewList[fakeCor]()
	wantErr := assert.AnError
	l.Register(&Observer[fakeCor]{
		AutoRemove: true,
		IsMatch:    func(fakeCor, *Observer[fakeCor], *Msg) bool { return true },
		Handle:     func(fakeCor, *Observer[fakeCor], *Msg) (int, error) { return 0, wantErr },
	})

	err := l.Dispatch(fakeCor{}, &Msg{})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, l.Len())
}

func TestRevokeByID(t *testing.T) {
	t.Parallel()

	l := NewList[fakeCor]()
	id := l.Register(&Observer[fakeCor]{
		IsMatch: func(fakeCor, *Observer[fakeCor], *Msg) bool { return true },
		Handle:  func(fakeCor, *Observer[fakeCor], *Msg) (int, error) { return 0, nil },
	})

	assert.True(t, l.Revoke(fakeCor{}, id))
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Revoke(fakeCor{}, id))
}
