package models

import "time"

type TableStatus string

const (
	TableStatusEmpty    TableStatus = "empty"    // boş
	TableStatusOccupied TableStatus = "occupied" // dolu
)

type Table struct {
	ID        uint        `gorm:"primaryKey"`
	Number    int         `gorm:"uniqueIndex;not null"` // masa numarası
	Status    TableStatus `gorm:"size:20;not null;default:empty"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
