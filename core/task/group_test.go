package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroup_wait(t *testing.T) {
	var g Group[int]
	for i := 1; i <= 3; i++ {
		h := Spawn(sumOf(i))
		for j := 0; j < i; j++ {
			require.NoError(t, h.Send(i))
		}
		g.Add(h)
	}

	res, err := g.Wait(t.Context())
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 9}, res)
}

func TestGroup_error(t *testing.T) {
	var g Group[int]
	g.Add(Spawn(func(*Mailbox[int]) int { return 1 }))
	g.Add(SpawnE(func(*Mailbox[string]) (int, error) {
		return 0, errors.New("failed")
	}))

	res, err := g.Wait(t.Context())
	require.EqualError(t, err, "failed")
	require.Nil(t, res)
}

func TestGroup_empty(t *testing.T) {
	var g Group[string]
	res, err := g.Wait(t.Context())
	require.NoError(t, err)
	require.Empty(t, res)
}
