package entities

// DaySetting is the calendar editor's setting for a single date.
type DaySetting struct {
	Available bool   `json:"available"`
	AllDay    bool   `json:"allDay"`
	StartTime string `json:"startTime" validate:"omitempty,clock"`
	EndTime   string `json:"endTime" validate:"omitempty,clock"`
}

// AvailabilityMap keys are YYYY-MM-DD dates.
type AvailabilityMap map[string]DaySetting

type ReplaceAvailabilityRequest struct {
	Days AvailabilityMap `json:"days" validate:"dive,keys,datetime=2006-01-02,endkeys"`
}

type SlotResponse struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	StartHour   int    `json:"start_hour"`
	EndHour     int    `json:"end_hour"`
	AllDay      bool   `json:"all_day"`
}

type AvailabilityResponse struct {
	SpaceID string          `json:"space_id"`
	Slots   []SlotResponse  `json:"slots"`
	Days    AvailabilityMap `json:"days"`
}
