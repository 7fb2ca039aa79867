package hook

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
)

const (
	buildTools Owner = "BuildTools"
	otherOwner Owner = "Other"
)

type journal struct {
	calls []string
}

var (
	onPrepare = NewPoint[*journal]("PrepareAssetsBeforeBuild")
	onModify  = NewPoint[Pair[*journal, string]]("AndroidProjectModify")
)

func record(name string) func(*journal) error {
	return func(j *journal) error {
		j.calls = append(j.calls, name)
		return nil
	}
}

func TestInvoke_OrderAndTieBreaks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "zeta", 0, record("zeta-0")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "alpha", 5, record("alpha-5")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "alpha", 0, record("alpha-0a")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "alpha", 0, record("alpha-0b")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "beta", -3, record("beta--3")))

	j := &journal{}
	require.NoError(t, Invoke(context.Background(), reg, onPrepare, buildTools, j))
	assert.Equal(t, []string{"beta--3", "alpha-0a", "alpha-0b", "zeta-0", "alpha-5"}, j.calls)
}

func TestInvoke_OwnerFilter(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "a", 0, record("mine")))
	require.NoError(t, Register(reg, onPrepare, otherOwner, "b", 0, record("theirs")))

	j := &journal{}
	require.NoError(t, Invoke(context.Background(), reg, onPrepare, buildTools, j))
	assert.Equal(t, []string{"mine"}, j.calls)
}

func TestInvoke_NoHandlers(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Invoke(context.Background(), reg, onPrepare, buildTools, &journal{}))
}

func TestInvoke_FailFast(t *testing.T) {
	reg := NewRegistry()
	boom := stderrors.New("boom")
	require.NoError(t, Register(reg, onPrepare, buildTools, "a", 0, record("first")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "b", 1, func(*journal) error { return boom }))
	require.NoError(t, Register(reg, onPrepare, buildTools, "c", 2, record("never")))

	j := &journal{}
	err := Invoke(context.Background(), reg, onPrepare, buildTools, j)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errors.HasCategory(err, errors.CategoryHook))
	assert.Equal(t, []string{"first"}, j.calls)

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	component, _ := classified.Context().GetString("component")
	assert.Equal(t, "b", component)
}

func TestInvoke_PanicBecomesError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "p", 0, func(*journal) error { panic("kaput") }))
	require.NoError(t, Register(reg, onPrepare, buildTools, "q", 1, record("after")))

	j := &journal{}
	err := Invoke(context.Background(), reg, onPrepare, buildTools, j)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
	assert.True(t, errors.HasCategory(err, errors.CategoryHook))
	assert.Empty(t, j.calls)
}

func TestRegister_SealedAfterFirstInvoke(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "a", 0, record("a")))
	require.False(t, reg.Sealed())

	require.NoError(t, Invoke(context.Background(), reg, onModify, buildTools, Pair[*journal, string]{First: &journal{}}))
	require.True(t, reg.Sealed())

	err := Register(reg, onPrepare, buildTools, "late", 0, record("late"))
	require.ErrorIs(t, err, ErrSealed)

	j := &journal{}
	require.NoError(t, Invoke(context.Background(), reg, onPrepare, buildTools, j))
	assert.Equal(t, []string{"a"}, j.calls)
}

func TestHead_StrictPrefix(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onModify, buildTools, "full", 0, func(p Pair[*journal, string]) error {
		p.First.calls = append(p.First.calls, "full:"+p.Second)
		return nil
	}))
	require.NoError(t, Register(reg, onModify, buildTools, "head", 1, Head[*journal, string](record("head"))))

	j := &journal{}
	require.NoError(t, Invoke(context.Background(), reg, onModify, buildTools, Pair[*journal, string]{First: j, Second: "/out/android"}))
	assert.Equal(t, []string{"full:/out/android", "head"}, j.calls)
}

func TestInvoke_CanceledContext(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "a", 0, record("a")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j := &journal{}
	err := Invoke(ctx, reg, onPrepare, buildTools, j)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, j.calls)
}

func TestRegister_Rejects(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, Register[*journal](reg, onPrepare, buildTools, "nil", 0, nil))
	require.Error(t, Register(reg, NewPoint[*journal](""), buildTools, "anon", 0, record("x")))
	assert.Panics(t, func() {
		MustRegister[*journal](reg, onPrepare, buildTools, "nil", 0, nil)
	})
}

func TestRegistrations_Listing(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, Register(reg, onPrepare, buildTools, "b", 1, record("b")))
	require.NoError(t, Register(reg, onPrepare, buildTools, "a", 1, record("a")))

	list := reg.Registrations(onPrepare.Name(), buildTools)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Component)
	assert.Equal(t, "b", list[1].Component)
	assert.True(t, reg.Sealed())
}
