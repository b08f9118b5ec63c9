package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testColor string

var (
	red  = New(testColor("red"))
	blue = New(testColor("blue"))
)

func TestToEnum(t *testing.T) {
	v, err := ToEnum[testColor]("blue")
	require.NoError(t, err)
	require.Equal(t, blue, v)

	_, err = ToEnum[testColor]("green")
	require.Error(t, err)

	type unknown string
	_, err = ToEnum[unknown]("x")
	require.Error(t, err)
}

func TestValues(t *testing.T) {
	New(testColor("red"))
	require.Equal(t, []testColor{red, blue}, Values[testColor]())
}
