package database

import (
	"time"
)

// PublishDateLayout is the ISO date format of celestial_objects.publish_date
const PublishDateLayout = "2006-01-02"

type Category struct {
	ID   int64
	Name string
}

// CategoryCount is a category with the number of catalog objects in it
type CategoryCount struct {
	Category
	Objects int
}

// CelestialObject is a catalog row joined with its category name
type CelestialObject struct {
	ID           int64
	NameFR       string
	NameSci      *string
	Description  string
	DistanceLY   *float64
	ImageURL     *string
	PublishDate  string // YYYY-MM-DD
	CategoryID   int64
	CategoryName string
}

// ObjectItem is the write model used by ingestion upserts. Distance is never
// part of it: the stored distance is reset to NULL on every upsert.
type ObjectItem struct {
	NameFR      string
	NameSci     string
	Description string
	ImageURL    string
	PublishDate string
	CategoryID  int64
	ExternalID  string
	EnteredBy   int64 // administrator id, 0 when unknown
}

type Administrator struct {
	ID           int64
	Handle       string
	PasswordHash string
}

type SurveyFeedback struct {
	ID          int64
	Email       string
	Preference  string
	SubmittedAt time.Time
	ObjectID    *int64
}
