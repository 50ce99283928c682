package backend

import (
	"context"
	"net/http"
	"strings"

	locationModels "minimarket/internal/location/models"
	id "minimarket/pkg/domain"
)

type locationDTO struct {
	ID        wireID   `json:"id"`
	Label     *string  `json:"label"`
	City      *string  `json:"city"`
	District  *string  `json:"district"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (d locationDTO) toModel() locationModels.UserLocation {
	loc := locationModels.UserLocation{
		ID:       id.LocationID(d.ID),
		City:     stringOr(d.City, ""),
		District: stringOr(d.District, ""),
	}
	loc.Label = stringOr(d.Label, strings.TrimSpace(loc.District+" "+loc.City))
	if d.Latitude != nil {
		loc.Latitude = *d.Latitude
	}
	if d.Longitude != nil {
		loc.Longitude = *d.Longitude
	}
	return loc
}

// UserLocations lists the saved delivery addresses of one user.
func (c *Client) UserLocations(ctx context.Context, email string) ([]locationModels.UserLocation, error) {
	var rows []locationDTO
	if err := c.call(ctx, "user_locations", http.MethodGet, pathf("users", email, "locations"), nil, nil, &rows); err != nil {
		return nil, err
	}
	out := make([]locationModels.UserLocation, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		out = append(out, r.toModel())
	}
	return out, nil
}
