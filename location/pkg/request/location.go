package request

type SelectCity struct {
	CityID string `validate:"required" json:"cityId"`
}

type SetCurrentLocation struct {
	Latitude  float64  `validate:"gte=-90,lte=90"   json:"latitude"`
	Longitude float64  `validate:"gte=-180,lte=180" json:"longitude"`
	Accuracy  *float64 `validate:"omitempty,gte=0"  json:"accuracy"`
}

type SetLocationEnabled struct {
	Enabled *bool `validate:"required" json:"enabled"`
}
