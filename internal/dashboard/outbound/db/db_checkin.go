package db

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
)

const sqlCreateCheckIn = `
INSERT INTO check_ins (id, national_id, school_id, table_number, checked_by, checked_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

func (s *DB) CreateCheckIn(ctx context.Context, in entity.CheckIn) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCheckIn")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, sqlCreateCheckIn,
		in.ID,
		in.NationalID,
		in.SchoolID,
		in.TableNumber,
		in.CheckedBy,
		in.CheckedAt,
	)
	err = s.mapError(err)
	return err
}

const sqlCheckInSummary = `
SELECT s.id, s.name, COUNT(c.id) AS checked_in
FROM schools s
LEFT JOIN check_ins c ON c.school_id = s.id
GROUP BY s.id, s.name
ORDER BY s.name
`

func (s *DB) GetCheckInSummary(ctx context.Context) (_ int64, _ []entity.SchoolParticipation, err error) {
	ctx, span := s.startSpan(ctx, "GetCheckInSummary")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sqlCheckInSummary)
	if err != nil {
		err = s.mapError(err)
		return 0, nil, err
	}
	defer rows.Close()

	var total int64
	var parts []entity.SchoolParticipation
	for rows.Next() {
		var p entity.SchoolParticipation
		if err = rows.Scan(&p.SchoolID, &p.SchoolName, &p.CheckedIn); err != nil {
			err = s.mapError(err)
			return 0, nil, err
		}
		total += p.CheckedIn
		parts = append(parts, p)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return 0, nil, err
	}

	return total, parts, nil
}
