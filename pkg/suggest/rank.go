package suggest

import (
	"math"
	"sort"
)

// Mean Earth radius for the spherical approximation.
const earthRadiusKm = 6371.0

// Mode is the explicit ranking choice. The two orderings are mutually
// exclusive; callers pick one through the constructors instead of the ranker
// sniffing optional parameters.
type Mode struct {
	byDistance bool
	lat, lon   float64
}

// ByPopulation orders candidates by population, largest first.
func ByPopulation() Mode {
	return Mode{}
}

// ByDistance orders candidates by great-circle distance from the given
// point, nearest first.
func ByDistance(lat, lon float64) Mode {
	return Mode{byDistance: true, lat: lat, lon: lon}
}

// rank reorders candidates in place.
//
// Ties are broken deterministically: equal distances fall back to population
// (descending) then name, equal populations fall back to name; the sorts are
// stable so remaining ties keep catalog order.
func rank(cands []Candidate, mode Mode) {
	if mode.byDistance {
		for i := range cands {
			cands[i].distKm = HaversineKm(mode.lat, mode.lon, cands[i].Place.Latitude, cands[i].Place.Longitude)
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].distKm != cands[j].distKm {
				return cands[i].distKm < cands[j].distKm
			}
			if cands[i].Place.Population != cands[j].Place.Population {
				return cands[i].Place.Population > cands[j].Place.Population
			}
			return cands[i].Place.Name < cands[j].Place.Name
		})
		return
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Place.Population != cands[j].Place.Population {
			return cands[i].Place.Population > cands[j].Place.Population
		}
		return cands[i].Place.Name < cands[j].Place.Name
	})
}

// HaversineKm returns the great-circle distance in kilometers between two
// points, using the haversine formula on a spherical Earth.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
