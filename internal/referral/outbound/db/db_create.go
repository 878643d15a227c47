package db

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/referral/entity"
)

const sqlCreateReferral = `
INSERT INTO referrals (id, name, surname, national_id, phone, school, table_number, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (s *DB) CreateReferral(ctx context.Context, in entity.Referral) (err error) {
	ctx, span := s.startSpan(ctx, "CreateReferral")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, sqlCreateReferral,
		in.ID,
		in.Name,
		in.Surname,
		in.NationalID,
		in.Phone,
		in.School,
		in.TableNumber,
		in.CreatedBy,
		in.CreatedAt,
	)
	err = s.mapError(err)
	return err
}
