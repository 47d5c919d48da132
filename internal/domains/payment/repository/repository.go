package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"voyage/infras/otel"
	"voyage/infras/postgres"
	"voyage/internal/domains/payment/model"
	gDto "voyage/shared/dto"
	gRepo "voyage/shared/repository"
)

// Audit is the append-only payment trail. Rows are inserted and read, never changed.
type Audit interface {
	Insert(ctx context.Context, audit model.Audit) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Audit, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Audit]
}

func New(db *postgres.Connection, otel otel.Otel) Audit {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Audit](model.AuditEntityName, model.AuditTableName, model.FieldID, db, otel),
	}
}
