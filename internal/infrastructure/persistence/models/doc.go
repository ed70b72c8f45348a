// Package models contains the GORM persistence models and their
// conversions to and from domain aggregates. Persistence concerns
// (column types, indexes, table names) live here so the domain layer
// stays free of GORM tags.
package models
