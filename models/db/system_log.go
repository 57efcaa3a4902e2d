package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"ncp-tracker-backend/models"
	"time"

	"github.com/pkg/errors"
)

type SystemLog struct {
	ID        string                `gorm:"primaryKey;default:uuid_generate_v4()"`
	Level     models.SystemLogLevel `gorm:"type:varchar(10);index"`
	Message   string
	Details   LogDetails `gorm:"type:jsonb"`
	CreatedAt time.Time  `gorm:"index"`
}

type LogDetails map[string]any

func (j LogDetails) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *LogDetails) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return nil
	default:
		return errors.Errorf("unsupported log details type %T", value)
	}
	return json.Unmarshal(data, j)
}
