package logs

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Log persists one application event. Metadata, when given, is stored as a
// JSON document next to the message.
func (ls *LogService) Log(entry SystemLog, metadata interface{}) error {
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			entry.Metadata = datatypes.JSON(b)
		}
	}
	entry.CreatedAt = time.Now()

	return ls.DB.Create(&entry).Error
}

// Recent returns the latest events, newest first.
func (ls *LogService) Recent(limit int) ([]SystemLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var entries []SystemLog
	err := ls.DB.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
