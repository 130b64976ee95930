package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorsClone(t *testing.T) {
	require.Equal(t, NotOpen, NotOpen)

	e := NotOpen
	e0 := NotOpen.Clone()
	require.NotEqual(t, fmt.Sprintf("%p", e), fmt.Sprintf("%p", e0))

	{
		e1 := NotOpen.Clone()
		e1.Code = 999
		require.NotEqual(t, e1.Code, e0.Code)
		require.Equal(t, uint(202), NotOpen.Code)
	}

	{
		e0.SetData("proposal", 1)
		require.NotEqual(t, e.Data, e0.Data)
		require.Empty(t, NotOpen.Data)
	}
}

func TestErrorsIs(t *testing.T) {
	cloned := AlreadyVoted.Clone().SetData("voter", "voter0001")
	require.True(t, stderrors.Is(cloned, AlreadyVoted))
	require.False(t, stderrors.Is(cloned, NotOpen))

	wrapped := pkgerrors.Wrap(cloned, "vote")
	require.True(t, stderrors.Is(wrapped, AlreadyVoted))

	require.False(t, stderrors.Is(stderrors.New("already voted"), AlreadyVoted))
}

func TestErrorsSerialize(t *testing.T) {
	e := Expired.Clone().SetData("proposal", 3)
	require.JSONEq(
		t,
		`{"code":203,"message":"proposal voting period has expired","data":{"proposal":3}}`,
		e.Error(),
	)
}
