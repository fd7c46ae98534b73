package api

import (
	"context"

	"github.com/lysyi3m/astrolearn/app/auth"
	"github.com/lysyi3m/astrolearn/app/catalog"
	"github.com/lysyi3m/astrolearn/app/chatbot"
	"github.com/lysyi3m/astrolearn/app/database"
	"github.com/lysyi3m/astrolearn/app/survey"
	"github.com/lysyi3m/astrolearn/app/tasks"
)

type IngesterInterface interface {
	Ingest(ctx context.Context, searchTerm string, maxPages int, adminID int64) (int, error)
}

type ResponderInterface interface {
	Reply(ctx context.Context, message string) (string, error)
}

var (
	_ IngesterInterface  = (*tasks.Ingester)(nil)
	_ ResponderInterface = (*chatbot.Responder)(nil)
)

// IngestDefaults are used when an ingest request does not name its own search
type IngestDefaults struct {
	SearchTerm string
	MaxPages   int
}

type Handler struct {
	catalog      *catalog.Service
	auth         *auth.Service
	survey       *survey.Service
	ingester     IngesterInterface
	responder    ResponderInterface
	objectRepo   database.ObjectRepository
	categoryRepo database.CategoryRepository
	surveyRepo   database.SurveyRepository
	ingest       IngestDefaults
}

type loginRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ingestRequest struct {
	SearchTerm string `json:"search_term"`
	MaxPages   int    `json:"max_pages"`
}

type chatRequest struct {
	Message string `json:"message"`
}
