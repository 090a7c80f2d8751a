package scene

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func translation(x, y, z float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	})
}

func TestGraph_UpsertAndLookup(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Upsert("cam", translation(1, 2, 3)))

	got, ok := g.Lookup("cam")
	require.True(t, ok)
	assert.True(t, mat.Equal(translation(1, 2, 3), got))

	_, ok = g.Lookup("missing")
	assert.False(t, ok)
}

func TestGraph_UpsertReplaces(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.Upsert("cam", translation(1, 0, 0)))
	require.NoError(t, g.Upsert("cam", translation(0, 5, 0)))

	got, _ := g.Lookup("cam")
	assert.Equal(t, 5.0, got.At(1, 3))
	assert.Equal(t, 1, g.Len())
}

func TestGraph_StoresCopies(t *testing.T) {
	g := NewGraph()
	m := translation(1, 2, 3)
	require.NoError(t, g.Upsert("cam", m))

	m.Set(0, 3, 100)
	got, _ := g.Lookup("cam")
	assert.Equal(t, 1.0, got.At(0, 3), "caller mutation leaked into graph")

	got.Set(0, 3, 200)
	again, _ := g.Lookup("cam")
	assert.Equal(t, 1.0, again.At(0, 3), "lookup result mutation leaked into graph")
}

func TestGraph_UpsertRejectsBadInput(t *testing.T) {
	g := NewGraph()
	cases := []struct {
		name      string
		node      string
		transform mat.Matrix
	}{
		{"empty_name", "", translation(0, 0, 0)},
		{"nil_transform", "cam", nil},
		{"typed_nil_transform", "cam", (*mat.Dense)(nil)},
		{"wrong_shape", "cam", mat.NewDense(3, 3, nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, g.Upsert(tc.node, tc.transform))
		})
	}
	assert.Equal(t, 0, g.Len())
}

func TestGraph_NamesSorted(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"b", "c", "a"} {
		require.NoError(t, g.Upsert(name, translation(0, 0, 0)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, g.Names())
}

func TestGraph_ConcurrentUpserts(t *testing.T) {
	g := NewGraph()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("cam%02d", i)
			_ = g.Upsert(name, translation(float64(i), 0, 0))
			_, _ = g.Lookup(name)
			_ = g.Names()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, g.Len())
}
