package geo

import (
	"math"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// metres per degree of latitude (WGS84 mean).
const metresPerDegLat = 111320.0

// Boundary is a resort boundary loaded from a shapefile, held as
// lon/lat polygons. Ring parts are treated as separate outer rings;
// boundaries with holes are not expected from piste survey exports.
type Boundary struct {
	polygons []*geom.Polygon
}

// LoadBoundary reads the polygon shapes from a shapefile.
func LoadBoundary(path string) (*Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer reader.Close() //nolint:errcheck

	b := &Boundary{}
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		b.polygons = append(b.polygons, shpPolygonRings(poly)...)
	}
	if skipped > 0 {
		zap.L().Debug("geo: skipped non-polygon shapes",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(b.polygons) == 0 {
		return nil, eris.Errorf("geo: no polygons in %s", path)
	}
	return b, nil
}

// shpPolygonRings converts each part of a shapefile polygon into its
// own single-ring geom polygon.
func shpPolygonRings(p *shp.Polygon) []*geom.Polygon {
	var out []*geom.Polygon
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 { // a closed ring needs at least 4 points
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("geo: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		out = append(out, poly.SetSRID(4326))
	}
	return out
}

// BBox returns the bounding box of all polygons.
func (b *Boundary) BBox() BBox {
	bounds := geom.NewBounds(geom.XY)
	for _, p := range b.polygons {
		bounds.Extend(p)
	}
	return BBox{
		MinLng: bounds.Min(0),
		MinLat: bounds.Min(1),
		MaxLng: bounds.Max(0),
		MaxLat: bounds.Max(1),
	}
}

// AreaM2 returns the total boundary area in m², computed per ring with
// the shoelace formula on equirectangular-projected coordinates. Good
// to well under a percent at resort scale, which is tighter than the
// depth data it feeds.
func (b *Boundary) AreaM2() float64 {
	var total float64
	for _, p := range b.polygons {
		total += ringAreaM2(p.FlatCoords())
	}
	return total
}

func ringAreaM2(flat []float64) float64 {
	n := len(flat) / 2
	if n < 3 {
		return 0
	}

	// Scale longitude by the ring's mean latitude.
	var sumLat float64
	for i := 0; i < n; i++ {
		sumLat += flat[i*2+1]
	}
	meanLat := sumLat / float64(n)
	mPerDegLng := metresPerDegLat * math.Cos(meanLat*math.Pi/180)

	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := flat[i*2]*mPerDegLng, flat[i*2+1]*metresPerDegLat
		xj, yj := flat[j*2]*mPerDegLng, flat[j*2+1]*metresPerDegLat
		area += xi*yj - xj*yi
	}
	return math.Abs(area) / 2
}
