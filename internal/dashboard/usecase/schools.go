package usecase

import (
	"context"
	"log/slog"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
)

// Schools returns the polling places with their map coordinates. Public:
// the console renders the map before the operator signs in.
func (s *Usecase) Schools(ctx context.Context) ([]entity.School, error) {
	ctx, span := s.startSpan(ctx, "Schools")
	defer span.End()

	schools, err := s.repoDB.GetSchoolList(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list schools", "error", err)
		return nil, goerror.NewServer(err)
	}

	return schools, nil
}
