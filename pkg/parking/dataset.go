package parking

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/azybler/parkmap/pkg/geo"
)

// Dataset is the JSON export of a collection run.
type Dataset struct {
	Metadata Metadata `json:"metadata"`
	Streets  []Street `json:"streets"`
}

// Metadata summarises a Dataset.
type Metadata struct {
	TotalStreets  int        `json:"total_streets"`
	TotalCapacity int        `json:"total_capacity"`
	AreaBounds    geo.Bounds `json:"area_bounds"`
	Timestamp     time.Time  `json:"timestamp"`
}

// NewDataset wraps streets with computed metadata.
func NewDataset(streets []Street, b geo.Bounds, now time.Time) Dataset {
	if streets == nil {
		streets = []Street{}
	}
	total := 0
	for _, s := range streets {
		total += s.EstimatedCapacity
	}
	return Dataset{
		Metadata: Metadata{
			TotalStreets:  len(streets),
			TotalCapacity: total,
			AreaBounds:    b,
			Timestamp:     now,
		},
		Streets: streets,
	}
}

// WriteJSON writes the dataset as indented JSON with non-ASCII names kept
// verbatim.
func (d Dataset) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return eris.Wrap(err, "parking: encode dataset")
	}
	return nil
}

// SaveFile writes the dataset to path.
func (d Dataset) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "parking: create %s", path)
	}
	if err := d.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "parking: close %s", path)
	}
	return nil
}

// ReadDataset decodes a dataset. A missing streets array yields an empty
// dataset; streets without coordinates are skipped; absent names and types
// get their defaults.
func ReadDataset(r io.Reader) (Dataset, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dataset{}, eris.Wrap(err, "parking: decode dataset")
	}

	kept := make([]Street, 0, len(d.Streets))
	for _, s := range d.Streets {
		if len(s.Coordinates) == 0 {
			zap.L().Warn("parking: skipping street without coordinates", zap.String("name", s.Name))
			continue
		}
		if s.Name == "" {
			s.Name = UnknownStreet
		}
		if s.StreetType == "" {
			s.StreetType = UnknownType
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		zap.L().Warn("parking: dataset has no streets")
	}
	d.Streets = kept
	return d, nil
}

// LoadFile reads a dataset from path.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, eris.Wrapf(err, "parking: open %s", path)
	}
	defer f.Close()
	return ReadDataset(f)
}
