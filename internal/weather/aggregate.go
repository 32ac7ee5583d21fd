package weather

import "time"

// MergeReadings combines provider readings ordered by priority into a single Snapshot.
// The first reading wins; zero-valued fields are filled from the following readings.
func MergeReadings(loc Location, readings []Snapshot) Snapshot {
	if len(readings) == 0 {
		return Snapshot{
			Location:  loc,
			FetchedAt: time.Now().UTC(),
		}
	}

	out := readings[0].Clone()
	out.Location = loc

	for _, r := range readings[1:] {
		if out.Name == "" {
			out.Name = r.Name
		}
		if out.Conditions.Pressure == 0 {
			out.Conditions.Pressure = r.Conditions.Pressure
		}
		if out.Conditions.Humidity == 0 {
			out.Conditions.Humidity = r.Conditions.Humidity
		}
		if out.Wind.Speed == 0 && out.Wind.Degrees == 0 {
			out.Wind = r.Wind
		}
		if len(out.Descriptions) == 0 && len(r.Descriptions) > 0 {
			out.Descriptions = r.Clone().Descriptions
		}
	}

	if out.FetchedAt.IsZero() {
		out.FetchedAt = time.Now().UTC()
	}
	return out
}
