package api

import (
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// SaveSnapshot appends a facility snapshot row.
func (d *Database) SaveSnapshot(snapshot *FacilitySnapshot) error {
	return d.db.Create(snapshot).Error
}

// AppendEvents journals a batch of drained events in order.
func (d *Database) AppendEvents(records []EventRecord) error {
	if len(records) == 0 {
		return nil
	}
	return d.db.Create(&records).Error
}

// LatestSnapshot returns the most recent snapshot for a facility.
func (d *Database) LatestSnapshot(facilityID string) (*FacilitySnapshot, error) {
	var snapshot FacilitySnapshot
	if err := d.db.Where("facility_id = ?", facilityID).
		Order("id DESC").
		First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// EventsByFacility returns the journaled events for a facility in emission order.
func (d *Database) EventsByFacility(facilityID string) ([]EventRecord, error) {
	var records []EventRecord
	if err := d.db.Where("facility_id = ?", facilityID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
