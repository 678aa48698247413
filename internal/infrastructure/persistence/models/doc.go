// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free from ORM concerns.
//
// Every model embeds EntityModel and converts with ToDomain / FromDomain. Junction tables have no
// model of their own: they are read into JunctionModel through column aliases.
package models
