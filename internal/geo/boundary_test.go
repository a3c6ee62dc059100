package geo

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBoundaryShapefile writes a closed square ~1113 m tall and
// ~762 m wide at 46.8°N.
func writeBoundaryShapefile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "boundary.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	ring := []shp.Point{
		{X: 9.15, Y: 46.80},
		{X: 9.16, Y: 46.80},
		{X: 9.16, Y: 46.81},
		{X: 9.15, Y: 46.81},
		{X: 9.15, Y: 46.80},
	}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	w.Write(&poly)
	w.Close()

	return path
}

func TestLoadBoundary(t *testing.T) {
	t.Parallel()

	b, err := LoadBoundary(writeBoundaryShapefile(t))
	require.NoError(t, err)

	// 0.01° × 0.01° at 46.8°N ≈ 848,000 m².
	assert.InEpsilon(t, 848000, b.AreaM2(), 0.01)

	box := b.BBox()
	assert.InDelta(t, 9.15, box.MinLng, 1e-9)
	assert.InDelta(t, 46.81, box.MaxLat, 1e-9)
	require.NoError(t, box.Validate())
}

func TestLoadBoundary_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadBoundary(filepath.Join(t.TempDir(), "nope.shp"))
	assert.Error(t, err)
}

func TestRingAreaM2_Degenerate(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ringAreaM2(nil))
	assert.Zero(t, ringAreaM2([]float64{9.15, 46.8, 9.16, 46.8}))
}
