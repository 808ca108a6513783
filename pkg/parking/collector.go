package parking

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/capacity"
	"github.com/azybler/parkmap/pkg/geo"
	"github.com/azybler/parkmap/pkg/metrics"
	"github.com/azybler/parkmap/pkg/osm"
)

// Collector fetches street ways from a Source and estimates their capacity.
type Collector struct {
	source    osm.Source
	estimator capacity.Estimator
	label     string
}

// NewCollector creates a Collector.
func NewCollector(src osm.Source, est capacity.Estimator) *Collector {
	return &Collector{source: src, estimator: est, label: sourceLabel(src)}
}

func sourceLabel(src osm.Source) string {
	switch src.(type) {
	case *osm.Overpass:
		return "overpass"
	case osm.PBF, *osm.PBF:
		return "pbf"
	default:
		return "other"
	}
}

// Collect returns the streets in b. Ways whose geometry cannot be estimated
// are logged and skipped.
func (c *Collector) Collect(ctx context.Context, b geo.Bounds) ([]Street, error) {
	ways, err := c.source.Ways(ctx, b)
	if err != nil {
		return nil, eris.Wrap(err, "parking: fetch ways")
	}

	streets := make([]Street, 0, len(ways))
	var total, skipped int
	for _, w := range ways {
		s, err := FromWay(w, c.estimator)
		if err != nil {
			if !errors.Is(err, capacity.ErrInvalidInput) {
				return nil, eris.Wrapf(err, "parking: way %d", w.ID)
			}
			zap.L().Warn("parking: skipping way",
				zap.Int64("way_id", int64(w.ID)),
				zap.Int("points", len(w.Geometry)),
				zap.Error(err),
			)
			skipped++
			continue
		}
		total += s.EstimatedCapacity
		streets = append(streets, s)
	}

	metrics.StreetsCollected.WithLabelValues(c.label).Add(float64(len(streets)))
	metrics.CapacityCollected.WithLabelValues(c.label).Add(float64(total))
	metrics.StreetsSkipped.WithLabelValues(c.label).Add(float64(skipped))

	zap.L().Info("parking: collected streets",
		zap.String("source", c.label),
		zap.Int("streets", len(streets)),
		zap.Int("skipped", skipped),
		zap.Int("capacity", total),
	)
	return streets, nil
}
