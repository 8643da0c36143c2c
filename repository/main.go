package repository

import (
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
)

type Repository struct {
	MaterialRepo *MaterialRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	db := infra.Postgres.DB
	return &Repository{
		MaterialRepo: &MaterialRepository{db: db},
	}
}
