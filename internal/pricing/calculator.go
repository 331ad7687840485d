// Package pricing computes booking duration, price and vehicle fit. It does
// no I/O; malformed input surfaces as a parse error.
package pricing

import (
	"math"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/utils"
)

// Currency is the only currency spaces are priced in.
const Currency = "eur"

type Duration struct {
	Hours float64 `json:"hours"`
	Days  int     `json:"days"`
}

// ComputeDuration returns elapsed fractional hours for hourly requests and
// whole days (rounded up) for daily ones. The result is not clamped: an
// hourly end before its start yields a negative duration and equal daily
// dates yield zero days.
func ComputeDuration(req entities.BookingRequest) (Duration, error) {
	if req.IsHourly {
		start, err := utils.FractionalHour(req.StartTime)
		if err != nil {
			return Duration{}, err
		}
		end, err := utils.FractionalHour(req.EndTime)
		if err != nil {
			return Duration{}, err
		}
		return Duration{Hours: end - start}, nil
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return Duration{}, err
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return Duration{}, err
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	return Duration{Days: days}, nil
}

// ComputeTotalPrice returns the price in euros.
func ComputeTotalPrice(space db.Space, req entities.BookingRequest) (float64, error) {
	d, err := ComputeDuration(req)
	if err != nil {
		return 0, err
	}
	return PriceFor(space, req.IsHourly, d), nil
}

func PriceFor(space db.Space, hourly bool, d Duration) float64 {
	if hourly {
		return d.Hours * space.HourlyPrice
	}
	return float64(d.Days) * space.DailyPrice
}

// ToMinorUnits converts euros to cents for the payment processor.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// IsVehicleCompatible reports whether the vehicle fits the space. A missing
// value on either side satisfies that dimension; a nil vehicle fits any space.
func IsVehicleCompatible(vehicle *db.Vehicle, space db.Space) bool {
	if vehicle == nil {
		return true
	}
	return fits(vehicle.LengthCM, space.LengthCM) &&
		fits(vehicle.WidthCM, space.WidthCM) &&
		fits(vehicle.HeightCM, space.HeightCM) &&
		fits(vehicle.WeightKG, space.MaxWeightKG)
}

func fits(v, limit *int) bool {
	if v == nil || limit == nil {
		return true
	}
	return *v <= *limit
}
