package entity

import "time"

// Shop tienda física de un tenant. Lat/Lng nulos significan que no hay geocerca configurada.
type Shop struct {
	ID           string
	TenantID     string
	Name         string
	Address      string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasGeofence indica si la tienda tiene coordenadas para validar la ubicación de la venta.
func (s *Shop) HasGeofence() bool {
	return s.Latitude != nil && s.Longitude != nil
}
