package statistics

// DailyStatistics summarises one calendar date
type DailyStatistics struct {
	Date         string       `json:"date"`
	Reservations StatusCounts `json:"reservations"`
	CheckIns     int64        `json:"check_ins"`
	NoShows      int64        `json:"no_shows"`
	Violations   int64        `json:"violations"`
	StudyMinutes int64        `json:"study_minutes"`
}

// StatusCounts is the number of reservations in each status
type StatusCounts struct {
	Total      int64 `json:"total"`
	Booked     int64 `json:"booked"`
	CheckedIn  int64 `json:"checked_in"`
	CheckedOut int64 `json:"checked_out"`
	Cancelled  int64 `json:"cancelled"`
}

// MonthlyStatistics holds one entry per day of the month plus the totals
type MonthlyStatistics struct {
	Month  string            `json:"month"`
	Days   []DailyStatistics `json:"days"`
	Totals DailyStatistics   `json:"totals"`
}

// StatusRow is one GROUP BY reserve_date, status row
type StatusRow struct {
	ReserveDate string
	Status      string
	Count       int64
	Minutes     int64
}

// DateCount is one GROUP BY reserve_date row
type DateCount struct {
	ReserveDate string
	Count       int64
}

func (d *DailyStatistics) add(o DailyStatistics) {
	d.Reservations.Total += o.Reservations.Total
	d.Reservations.Booked += o.Reservations.Booked
	d.Reservations.CheckedIn += o.Reservations.CheckedIn
	d.Reservations.CheckedOut += o.Reservations.CheckedOut
	d.Reservations.Cancelled += o.Reservations.Cancelled
	d.CheckIns += o.CheckIns
	d.NoShows += o.NoShows
	d.Violations += o.Violations
	d.StudyMinutes += o.StudyMinutes
}

func (d *DailyStatistics) apply(row StatusRow) {
	d.Reservations.Total += row.Count
	switch row.Status {
	case "BOOKED":
		d.Reservations.Booked += row.Count
	case "CHECKED_IN":
		d.Reservations.CheckedIn += row.Count
		d.CheckIns += row.Count
	case "CHECKED_OUT":
		d.Reservations.CheckedOut += row.Count
		d.CheckIns += row.Count
		d.StudyMinutes += row.Minutes
	case "CANCELLED":
		d.Reservations.Cancelled += row.Count
	}
}
