package db

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/referral/entity"
)

const sqlGetReferralByNationalID = `
SELECT id, name, surname, national_id, phone, school, table_number, created_by, created_at
FROM referrals
WHERE national_id = $1
`

func (s *DB) GetReferralByNationalID(ctx context.Context, nationalID string) (_ *entity.Referral, err error) {
	ctx, span := s.startSpan(ctx, "GetReferralByNationalID")
	defer func() { s.endSpan(span, err) }()

	var ref entity.Referral
	err = s.conn.QueryRow(ctx, sqlGetReferralByNationalID, nationalID).Scan(
		&ref.ID,
		&ref.Name,
		&ref.Surname,
		&ref.NationalID,
		&ref.Phone,
		&ref.School,
		&ref.TableNumber,
		&ref.CreatedBy,
		&ref.CreatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &ref, nil
}

const sqlListReferrals = `
SELECT id, name, surname, national_id, phone, school, table_number, created_by, created_at,
       COUNT(*) OVER() AS total
FROM referrals
WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR surname ILIKE '%' || $1 || '%' OR national_id LIKE '%' || $1 || '%')
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

func (s *DB) GetReferralList(ctx context.Context, filter entity.ListFilter) (_ []entity.Referral, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetReferralList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, sqlListReferrals, filter.Search, filter.Size, filter.Offset())
	if err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}
	defer rows.Close()

	var refs []entity.Referral
	var total int64
	for rows.Next() {
		var ref entity.Referral
		if err = rows.Scan(
			&ref.ID,
			&ref.Name,
			&ref.Surname,
			&ref.NationalID,
			&ref.Phone,
			&ref.School,
			&ref.TableNumber,
			&ref.CreatedBy,
			&ref.CreatedAt,
			&total,
		); err != nil {
			err = s.mapError(err)
			return nil, 0, err
		}
		refs = append(refs, ref)
	}
	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	return refs, total, nil
}
