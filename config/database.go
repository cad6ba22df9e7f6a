package config

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gatherpoint/checkin-go/models"
)

// approvedOnceIndex is the storage-level guarantee behind the engine's
// one-approved-check-in-per-(participant,event) invariant. The application's
// pre-insert existence check is only a fast path; this index is what actually
// prevents double awards under concurrency. AutoMigrate cannot express a
// partial index, hence the raw statement.
const approvedOnceIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS ux_check_ins_approved_once
ON check_in_records (participant_id, event_id)
WHERE outcome = 'approved'
`

func InitDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Surface unique violations as gorm.ErrDuplicatedKey so the storage
		// layer can translate them.
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = db.AutoMigrate(
		&models.Participant{},
		&models.Venue{},
		&models.Event{},
		&models.ParticipationRecord{},
		&models.DailyCodeEmission{},
		&models.CheckInRecord{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := db.Exec(approvedOnceIndex).Error; err != nil {
		log.Fatal("Failed to create approved-once index:", err)
	}

	return db
}
