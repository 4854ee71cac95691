// Package geofence calcula distancias de gran círculo y valida radios alrededor de una tienda.
package geofence

import "math"

// EarthRadiusMeters radio medio de la Tierra (IUGG).
const EarthRadiusMeters = 6371008.8

// Point coordenada en grados decimales.
type Point struct {
	Lat float64
	Lng float64
}

// ValidCoordinates indica si lat/lng son finitos y están en rango.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Distance distancia haversine en metros entre a y b.
func Distance(a, b Point) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	dPhi := toRadians(b.Lat - a.Lat)
	dLambda := toRadians(b.Lng - a.Lng)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	h := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// el redondeo puede dejar h fuera de [0,1] cerca de puntos antípodas
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinRadius indica si el llamador está a radiusMeters o menos del objetivo.
// Coordenadas inválidas o radio negativo devuelven false.
func WithinRadius(callerLat, callerLng, targetLat, targetLng, radiusMeters float64) bool {
	if !ValidCoordinates(callerLat, callerLng) || !ValidCoordinates(targetLat, targetLng) {
		return false
	}
	if math.IsNaN(radiusMeters) || radiusMeters < 0 {
		return false
	}
	d := Distance(Point{Lat: callerLat, Lng: callerLng}, Point{Lat: targetLat, Lng: targetLng})
	return d <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
