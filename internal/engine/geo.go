package engine

import "math"

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between
// two coordinates on a spherical earth.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Route is the immutable route geometry: the two stop coordinates and
// their display names. Progress along the route is always measured
// from the origin stop.
type Route struct {
	Origin       Coordinate
	Terminus     Coordinate
	OriginName   string
	TerminusName string
}

// Progress returns percent advancement from the origin stop for a
// position, scaled by the nominal route length and clamped to [0,100].
func (r Route) Progress(routeKm, lat, lon float64) float64 {
	if routeKm <= 0 {
		return 0
	}
	p := r.DistanceFromOrigin(lat, lon) / routeKm * 100
	if p > 100 {
		p = 100
	}
	return p
}

// DistanceFromOrigin returns the great-circle distance in kilometers
// from the origin stop.
func (r Route) DistanceFromOrigin(lat, lon float64) float64 {
	return Haversine(r.Origin.Lat, r.Origin.Lon, lat, lon)
}

// EndpointName returns the display name of the stop a direction heads
// towards.
func (r Route) EndpointName(dir Direction) string {
	if dir == DirectionOutbound {
		return r.TerminusName
	}
	return r.OriginName
}

// Label renders a direction as "A → B" for caller-facing output.
func (r Route) Label(dir Direction) string {
	if dir == DirectionOutbound {
		return r.OriginName + " → " + r.TerminusName
	}
	return r.TerminusName + " → " + r.OriginName
}
