package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimary(t *testing.T) {
	_, ok := Record{}.Primary()
	require.False(t, ok)

	f, ok := Record{Faces: []Face{{Name: "Front"}, {Name: "Back"}}}.Primary()
	require.True(t, ok)
	require.Equal(t, "Front", f.Name)
}

func TestInstances(t *testing.T) {
	require.Equal(t, 1, Record{Quantity: 0}.Instances())
	require.Equal(t, 1, Record{Quantity: -2}.Instances())
	require.Equal(t, 3, Record{Quantity: 3}.Instances())
}
