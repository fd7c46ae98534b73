package database

import (
	"context"
)

type ObjectRepository interface {
	GetObjectByID(ctx context.Context, id int64) (*CelestialObject, error)
	GetObjectByName(ctx context.Context, nameFR string) (*CelestialObject, error)
	ListObjects(ctx context.Context) ([]CelestialObject, error)
	ListObjectsByCategory(ctx context.Context, categoryID int64) ([]CelestialObject, error)
	SearchObjects(ctx context.Context, term string) ([]CelestialObject, error)
	GetObjectCount(ctx context.Context) (int, error)

	UpsertObject(ctx context.Context, item ObjectItem) (int64, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*Category, error)
	GetCategoryCounts(ctx context.Context) ([]CategoryCount, error)
}

type AdminRepository interface {
	GetAdminByHandle(ctx context.Context, handle string) (*Administrator, error)
	CreateAdmin(ctx context.Context, handle, passwordHash string) (bool, error)
}

type SurveyRepository interface {
	InsertFeedback(ctx context.Context, feedback SurveyFeedback) (int64, error)
	GetFeedbackCount(ctx context.Context) (int, error)
	ListRecentFeedback(ctx context.Context, limit int) ([]SurveyFeedback, error)
}

var (
	_ ObjectRepository   = (*ObjectRepo)(nil)
	_ CategoryRepository = (*CategoryRepo)(nil)
	_ AdminRepository    = (*AdminRepo)(nil)
	_ SurveyRepository   = (*SurveyRepo)(nil)
)
