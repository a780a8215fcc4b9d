package utils

import (
	"encoding/json"
	"time"
)

// RFC3339Date оборачивает time.Time и сериализуется в JSON строкой в формате
// RFC3339. Используется для времени создания заказа и метки баннера.
type RFC3339Date struct {
	time.Time
}

func (d RFC3339Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.RFC3339))
}

func (d *RFC3339Date) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}

	d.Time = parsed
	return nil
}
