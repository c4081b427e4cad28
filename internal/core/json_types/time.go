package json_types

import (
	"encoding/json"
	"fmt"
)

// ClockTime представляет время суток в формате "HH:MM" без привязки к дате.
// Именно в таком виде слоты хранятся в CMS и отдаются клиенту.
type ClockTime struct {
	Hour   int
	Minute int
}

func ParseClockTime(str string) (ClockTime, error) {
	var t ClockTime
	if _, err := fmt.Sscanf(str, "%02d:%02d", &t.Hour, &t.Minute); err != nil {
		return ClockTime{}, fmt.Errorf("failed to parse clock time %q: %v", str, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q is out of range", str)
	}
	return t, nil
}

func MustClockTime(str string) ClockTime {
	t, err := ParseClockTime(str)
	if err != nil {
		panic(err)
	}
	return t
}

// AddMinutes возвращает новое время, сдвинутое на minutes вперед,
// с переносом через границу часа. Перенос через полночь сеткой не используется.
func (t ClockTime) AddMinutes(minutes int) ClockTime {
	total := t.Hour*60 + t.Minute + minutes
	total %= 24 * 60
	return ClockTime{Hour: total / 60, Minute: total % 60}
}

func (t ClockTime) Before(other ClockTime) bool {
	return t.Hour*60+t.Minute < other.Hour*60+other.Minute
}

func (t ClockTime) Equal(other ClockTime) bool {
	return t.Hour == other.Hour && t.Minute == other.Minute
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("clock time must be an \"HH:MM\" string: %v", err)
	}
	parsed, err := ParseClockTime(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
