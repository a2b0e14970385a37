package rootgrowth

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/datastore"
	"github.com/specialistvlad/choregrapher/internal/focus"
	"github.com/specialistvlad/choregrapher/internal/process"
	"github.com/specialistvlad/choregrapher/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const ns = "main_root"

var testParams = map[string]float64{
	"growth_rate":    1,
	"max_elongation": 10,
	"initial_length": 0.75,
}

func setup(t *testing.T, store *datastore.Store, filter *focus.Filter) (*choregrapher.Choregrapher, *Instance) {
	t.Helper()
	c, err := choregrapher.New()
	require.NoError(t, err)
	require.NoError(t, Model{}.Register(c, ns))

	inst, err := Model{}.NewInstance(ns, "props", store, testParams)
	require.NoError(t, err)
	require.NoError(t, c.Bind(inst, "props", filter))
	require.NoError(t, c.Registry().CheckAttributes(ns, inst, store))
	return c, inst.(*Instance)
}

func lengths(t *testing.T, s *datastore.Store) map[datastore.ElementID]float64 {
	t.Helper()
	a, ok := s.Array(Length)
	require.True(t, ok)
	got, err := a.Floats()
	require.NoError(t, err)
	return got
}

func TestRegister_Waves(t *testing.T) {
	t.Parallel()

	c, err := choregrapher.New()
	require.NoError(t, err)
	require.NoError(t, Model{}.Register(c, ns))

	want := []schedule.Wave{
		{Vector: schedule.Vector{0, 0, 0, 0, 0}, Names: []string{PotentialLength}},
		{Vector: schedule.Vector{0, 0, 0, 3, 0}, Names: []string{ActualLength}},
		{Vector: schedule.Vector{0, 0, 0, 4, 0}, Names: []string{"segmentation"}},
		{Vector: schedule.Vector{0, 2, 0, 0, 0}, Names: []string{Length}},
	}
	if diff := cmp.Diff(want, c.Waves(ns)); diff != "" {
		t.Errorf("waves mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ApexGrowthAndSegmentation(t *testing.T) {
	t.Parallel()

	store := datastore.New()
	c, inst := setup(t, store, &focus.Filter{Label: []string{LabelApex}, Type: []string{TypeRoot}})
	ctx := context.Background()

	// 0.75 doubles to 1.5: one segment of length 1 is split off.
	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, map[datastore.ElementID]float64{1: 0.5, 2: 1}, lengths(t, store))
	assert.Equal(t, 1, inst.Segments())

	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, map[datastore.ElementID]float64{1: 1, 2: 1}, lengths(t, store))

	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, map[datastore.ElementID]float64{1: 1, 2: 1, 3: 1}, lengths(t, store))
	assert.Equal(t, 2, inst.Segments())

	labels, ok := store.Array("label")
	require.True(t, ok)
	assert.True(t, labels[3].RawEquals(cty.StringVal(LabelSegment)))
	assert.Equal(t, []datastore.ElementID{1}, store.Focus(), "segments stay out of focus")
}

func TestRun_VectorStore(t *testing.T) {
	t.Parallel()

	store := datastore.New(datastore.WithKind(datastore.KindVector))
	c, _ := setup(t, store, nil)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, map[datastore.ElementID]float64{1: 0.5, 2: 1}, lengths(t, store))

	// Whole-array processes also grow the segment.
	require.NoError(t, c.Run(ctx, ns))
	assert.Equal(t, map[datastore.ElementID]float64{1: 1, 2: 2}, lengths(t, store))
}

func TestNewInstance(t *testing.T) {
	t.Parallel()

	store := datastore.New()
	store.AddElements(4)
	_, err := Model{}.NewInstance(ns, "props", store, nil)
	require.NoError(t, err)
	assert.Equal(t, []datastore.ElementID{4}, store.IDs(), "a populated store is not seeded")

	_, err = Model{}.NewInstance(ns, "props", datastore.New(), map[string]float64{"speed": 1})
	require.ErrorContains(t, err, "unknown parameters: speed")
}

func TestRun_ForeignInstance(t *testing.T) {
	t.Parallel()

	c, err := choregrapher.New()
	require.NoError(t, err)
	require.NoError(t, Model{}.Register(c, ns))

	store := datastore.New()
	_, err = Model{}.NewInstance(ns, "props", store, nil)
	require.NoError(t, err)
	foreign := process.NewBaseInstance(ns)
	foreign.AttachStore("props", store)
	require.NoError(t, c.Bind(foreign, "props", nil))

	require.ErrorContains(t, c.Run(context.Background(), ns), "unexpected instance")
}
