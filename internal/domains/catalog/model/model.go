package model

import "voyage/shared/model"

const (
	TableName  = "packages"
	EntityName = "package"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDestination = "destination"
	FieldPrice       = "price"
	FieldDuration    = "duration_days"
	FieldActive      = "active"
)

// Package is a sellable travel package. Price is per traveler in minor currency units.
type Package struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Destination  string `db:"destination"`
	Description  string `db:"description"`
	Price        int64  `db:"price"`
	Currency     string `db:"currency"`
	DurationDays int    `db:"duration_days"`
	Active       bool   `db:"active"`
	model.Metadata
}
