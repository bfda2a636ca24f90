// Package domain contains the fixed three-level addressing scheme of the
// complex: Building -> Entrance -> Apartment.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Fixed layout of every entrance in the complex.
const (
	FloorsPerEntrance = 16
	DoorsPerFloor     = 6
	DoorsPerEntrance  = FloorsPerEntrance * DoorsPerFloor
)

type Building struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	BuildingNumber string       `gorm:"type:text;not null;uniqueIndex" json:"building_number"`
	EntranceCount  int          `gorm:"not null" json:"entrance_count"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Building) TableName() string { return "buildings" }

type Entrance struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	BuildingID     snowflake.ID `gorm:"not null;uniqueIndex:uq_building_entrance" json:"building_id"`
	EntranceNumber int          `gorm:"not null;uniqueIndex:uq_building_entrance" json:"entrance_number"`
}

func (Entrance) TableName() string { return "entrances" }

type Apartment struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	EntranceID  snowflake.ID `gorm:"not null;uniqueIndex:uq_entrance_door" json:"entrance_id"`
	DoorNumber  int          `gorm:"not null;uniqueIndex:uq_entrance_door" json:"door_number"`
	FloorNumber int          `gorm:"not null" json:"floor_number"`
}

func (Apartment) TableName() string { return "apartments" }

// Address identifies one apartment the way upload rows do.
type Address struct {
	BuildingNumber string
	EntranceNumber int
	DoorNumber     int
}

func (a Address) String() string {
	return fmt.Sprintf("%s-%d-%d", a.BuildingNumber, a.EntranceNumber, a.DoorNumber)
}

// FloorForDoor maps a sequential door number to its floor in the fixed
// 16x6 layout. Door numbers start at 1 on the ground floor.
func FloorForDoor(doorNumber int) int {
	if doorNumber < 1 {
		return 0
	}
	return (doorNumber-1)/DoorsPerFloor + 1
}
