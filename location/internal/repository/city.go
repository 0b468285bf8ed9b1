package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Alturino/cityat/location/internal/state"
)

type City struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	State         string    `json:"state"`
	Country       string    `json:"country"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	IsServiceable bool      `json:"is_serviceable"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c City) StateCity() state.City {
	return state.City{
		ID:            c.ID,
		Name:          c.Name,
		State:         c.State,
		Country:       c.Country,
		Coordinates:   state.Location{Latitude: c.Latitude, Longitude: c.Longitude},
		IsServiceable: c.IsServiceable,
	}
}

const cityColumns = `id, name, state, country, latitude, longitude, is_serviceable, created_at, updated_at`

func scanCity(row pgx.Row) (City, error) {
	var i City
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.State,
		&i.Country,
		&i.Latitude,
		&i.Longitude,
		&i.IsServiceable,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectCities(rows pgx.Rows, err error) ([]City, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (City, error) {
		return scanCity(row)
	})
}

const findCityById = `SELECT ` + cityColumns + ` FROM cities WHERE id = $1`

func (q *Queries) FindCityById(ctx context.Context, id string) (City, error) {
	return scanCity(q.db.QueryRow(ctx, findCityById, id))
}

const searchCities = `SELECT ` + cityColumns + ` FROM cities
WHERE $1::text = ''
	OR name ILIKE '%' || $1::text || '%' ESCAPE '\'
	OR state ILIKE '%' || $1::text || '%' ESCAPE '\'
ORDER BY name`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCities matches search case-insensitively against name and state,
// taking % and _ literally. An empty search lists every city.
func (q *Queries) SearchCities(ctx context.Context, search string) ([]City, error) {
	return collectCities(q.db.Query(ctx, searchCities, likeEscaper.Replace(search)))
}

const findServiceableCities = `SELECT ` + cityColumns + ` FROM cities WHERE is_serviceable ORDER BY name`

func (q *Queries) FindServiceableCities(ctx context.Context) ([]City, error) {
	return collectCities(q.db.Query(ctx, findServiceableCities))
}
