package evaluation

import (
	"github.com/GTD-web/ems-backend-sub025/internal/domain/entity"
	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

type Service struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

func NewService(conn db.DBTX, uow db.UnitOfWork) *Service {
	return &Service{conn: conn, uow: uow}
}

func validateEvaluationID(id string) error {
	var v entity.Violations
	v.ID("evaluationId", id)
	return v.Err()
}

// scoreInRange checks an optional score against [MinScore, maxScore].
func scoreInRange(field string, score *int, maxScore int) error {
	var v entity.Violations
	v.IntRange(field, score, MinScore, maxScore)
	return v.Err()
}
