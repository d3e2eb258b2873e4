package dataset

import (
	"io"
	"os"

	"github.com/kilianp07/charterbid/core/roster"
)

// Paths locates the input files. ForceRejects is optional.
type Paths struct {
	Seniority      string `json:"seniority"`
	StandardRoutes string `json:"standard_routes"`
	Charters       string `json:"charters"`
	Bids           string `json:"bids"`
	ForceRejects   string `json:"force_rejects"`
}

// Load reads every configured file.
func Load(p Paths, maxBids int) (roster.Input, []roster.ForceReject, error) {
	var in roster.Input
	var err error
	if in.Seniority, err = readFile(p.Seniority, ReadSeniority); err != nil {
		return in, nil, err
	}
	if in.StandardRoutes, err = readFile(p.StandardRoutes, ReadStandardRoutes); err != nil {
		return in, nil, err
	}
	if in.Charters, err = readFile(p.Charters, ReadCharters); err != nil {
		return in, nil, err
	}
	if in.Bids, err = readFile(p.Bids, func(r io.Reader) ([]roster.BidRow, error) { return ReadBids(r, maxBids) }); err != nil {
		return in, nil, err
	}
	var rejects []roster.ForceReject
	if p.ForceRejects != "" {
		if rejects, err = readFile(p.ForceRejects, ReadForceRejects); err != nil {
			return in, nil, err
		}
	}
	return in, rejects, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return read(f)
}
