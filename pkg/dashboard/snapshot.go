package dashboard

import (
	"encoding/json"
	"time"

	"github.com/matzehuels/dashgrid/pkg/errors"
	"github.com/matzehuels/dashgrid/pkg/grid"
)

// CurrentVersion is the snapshot schema version written by this package.
// A stored snapshot with any other version is discarded on load.
const CurrentVersion = "3"

// Snapshot is the persisted form of a layout. It is always written
// whole.
type Snapshot struct {
	Instances    []Instance      `json:"instances"`
	Version      string          `json:"version"`
	LastModified time.Time       `json:"lastModified"`
	Breakpoint   grid.Breakpoint `json:"breakpoint,omitempty"`
}

// EncodeSnapshot serializes s as JSON. A nil instance list is written as [].
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Instances == nil {
		s.Instances = []Instance{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot. It does not check the version or
// the layout invariants.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode snapshot")
	}
	return s, nil
}
