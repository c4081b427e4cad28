package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date представляет календарную дату в формате "2006-01-02" без компонента времени.
// CMS хранит дни расписания и даты бронирований именно так.
type Date struct {
	Date time.Time
}

func NewDate(t time.Time) Date {
	return Date{Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(str string) (Date, error) {
	parsed, err := time.Parse("2006-01-02", str)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %v", str, err)
	}
	return Date{Date: parsed}, nil
}

func (d Date) AddDays(days int) Date {
	return Date{Date: d.Date.AddDate(0, 0, days)}
}

func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

func (d Date) Weekday() time.Weekday {
	return d.Date.Weekday()
}

func (d Date) String() string {
	return d.Date.Format("2006-01-02")
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("date must be a \"2006-01-02\" string: %v", err)
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
