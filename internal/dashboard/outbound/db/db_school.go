package db

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
)

const sqlListSchools = `
SELECT id, name, address, latitude, longitude, tables
FROM schools
ORDER BY name
`

func (s *DB) GetSchoolList(ctx context.Context) (_ []entity.School, err error) {
	ctx, span := s.startSpan(ctx, "GetSchoolList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sqlListSchools)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var schools []entity.School
	for rows.Next() {
		var sc entity.School
		if err = rows.Scan(&sc.ID, &sc.Name, &sc.Address, &sc.Latitude, &sc.Longitude, &sc.Tables); err != nil {
			err = s.mapError(err)
			return nil, err
		}
		schools = append(schools, sc)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return schools, nil
}
