// Package match ranks centers with open blood demand for a donor.
package match

import (
	"sort"

	"github.com/bloodlink/bloodbot/internal/domain"
	"github.com/bloodlink/bloodbot/internal/geo"
	"github.com/bloodlink/bloodbot/internal/storage"
)

// Match is one center the donor can help, with the computed distance.
// DistanceKM is nil when either side has no coordinates.
type Match struct {
	Center     domain.MedicalCenter
	Status     domain.NeedStatus
	DistanceKM *float64
}

// Options bounds the result set.
type Options struct {
	RadiusKM float64
	Limit    int
}

// Find filters and ranks active needs for the donor. Centers with a known
// distance beyond the radius are dropped; centers with an unknown distance
// stay in but sort after every known one. The sort is stable so database
// order breaks ties.
func Find(donor *domain.User, needs []storage.NeedWithCenter, opts Options) []Match {
	matches := make([]Match, 0, len(needs))
	for _, nc := range needs {
		m := Match{Center: nc.Center, Status: nc.Status}
		if donor.Latitude != nil && donor.Longitude != nil &&
			nc.Center.Latitude != nil && nc.Center.Longitude != nil {
			d := geo.DistanceKM(*donor.Latitude, *donor.Longitude,
				*nc.Center.Latitude, *nc.Center.Longitude)
			if opts.RadiusKM > 0 && d > opts.RadiusKM {
				continue
			}
			m.DistanceKM = &d
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].DistanceKM, matches[j].DistanceKM
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}
