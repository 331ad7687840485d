package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/utils"
)

// SlotsFromMap converts the editor map into slots ordered by date. Entries
// marked unavailable are dropped. Only the hour portion of start and end
// times is kept.
func SlotsFromMap(spaceID uuid.UUID, m entities.AvailabilityMap) ([]db.AvailabilitySlot, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	slots := make([]db.AvailabilitySlot, 0, len(keys))
	for _, k := range keys {
		setting := m[k]
		if !setting.Available {
			continue
		}
		date, err := utils.ParseDate(k)
		if err != nil {
			return nil, err
		}

		start, end := db.AllDayStartHour, db.AllDayEndHour
		if !setting.AllDay {
			if start, _, err = utils.ParseClock(setting.StartTime); err != nil {
				return nil, fmt.Errorf("%s start: %w", k, err)
			}
			if end, _, err = utils.ParseClock(setting.EndTime); err != nil {
				return nil, fmt.Errorf("%s end: %w", k, err)
			}
			if start > end {
				return nil, fmt.Errorf("%s: start %s is after end %s", k, setting.StartTime, setting.EndTime)
			}
		}
		slots = append(slots, db.NewAvailabilitySlot(spaceID, date, start, end))
	}
	return slots, nil
}

// ToAvailabilityMap is the inverse of SlotsFromMap for stored slots.
func ToAvailabilityMap(slots []db.AvailabilitySlot) entities.AvailabilityMap {
	m := make(entities.AvailabilityMap, len(slots))
	for _, s := range slots {
		m[utils.FormatDate(s.Date)] = entities.DaySetting{
			Available: s.IsAvailable,
			AllDay:    s.IsAllDay(),
			StartTime: utils.FormatHour(s.StartHour),
			EndTime:   utils.FormatHour(s.EndHour),
		}
	}
	return m
}

// CopyDaySetting returns a copy of m where every target date carries the
// setting of source.
func CopyDaySetting(m entities.AvailabilityMap, source string, targets []string) (entities.AvailabilityMap, error) {
	setting, ok := m[source]
	if !ok {
		return nil, fmt.Errorf("no setting for %s", source)
	}
	out := make(entities.AvailabilityMap, len(m)+len(targets))
	for k, v := range m {
		out[k] = v
	}
	for _, t := range targets {
		if _, err := utils.ParseDate(t); err != nil {
			return nil, err
		}
		out[t] = setting
	}
	return out, nil
}

// RequestDates lists the calendar dates a request occupies. Hourly requests
// occupy their start date; daily requests occupy [start_date, end_date).
func RequestDates(req entities.BookingRequest) ([]time.Time, error) {
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	if req.IsHourly {
		return []time.Time{start}, nil
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	var dates []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// CoversRequest reports whether slots make every date of the request
// available. Hourly requests also need the slot to span the requested times.
func CoversRequest(slots []db.AvailabilitySlot, req entities.BookingRequest) (bool, error) {
	dates, err := RequestDates(req)
	if err != nil {
		return false, err
	}
	if len(dates) == 0 {
		return false, nil
	}

	byDate := make(map[string]db.AvailabilitySlot, len(slots))
	for _, s := range slots {
		if s.IsAvailable {
			byDate[utils.FormatDate(s.Date)] = s
		}
	}

	var from, to float64
	if req.IsHourly {
		if from, err = utils.FractionalHour(req.StartTime); err != nil {
			return false, err
		}
		if to, err = utils.FractionalHour(req.EndTime); err != nil {
			return false, err
		}
	}
	for _, d := range dates {
		slot, ok := byDate[utils.FormatDate(d)]
		if !ok {
			return false, nil
		}
		if req.IsHourly && (float64(slot.StartHour) > from || to > float64(slot.EndHour)) {
			return false, nil
		}
	}
	return true, nil
}
