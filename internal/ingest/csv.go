// Package ingest reads schedule data from CSV files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"rail/internal/domain"
)

// ErrMalformedRecord wraps every parse failure of a single CSV row.
var ErrMalformedRecord = errors.New("malformed schedule record")

const nextDaySuffix = "(+1d)"

// Record is one row of the schedule CSV.
type Record struct {
	RouteID       string `csv:"Route ID"`
	DepartureCity string `csv:"Departure City"`
	ArrivalCity   string `csv:"Arrival City"`
	DepartureTime string `csv:"Departure Time"`
	ArrivalTime   string `csv:"Arrival Time"`
	TrainType     string `csv:"Train Type"`
	Days          string `csv:"Days of Operation"`
	FirstClass    string `csv:"First Class ticket rate (in euro)"`
	SecondClass   string `csv:"Second Class ticket rate (in euro)"`
}

// columns is the number of fields every schedule row carries.
const columns = 9

func (r Record) blank() bool {
	for _, f := range []string{r.RouteID, r.DepartureCity, r.ArrivalCity, r.DepartureTime, r.ArrivalTime, r.TrainType, r.Days, r.FirstClass, r.SecondClass} {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// LoadFile reads connections from the CSV file at path.
func LoadFile(path string, reg *domain.Registry) ([]*domain.Connection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	conns, err := ReadConnections(f, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conns, nil
}

// ReadConnections parses a schedule CSV. The first row is a header and is
// skipped; columns are read by position. Rows with every field blank are
// skipped, any other row that does not convert aborts the read.
func ReadConnections(in io.Reader, reg *domain.Registry) ([]*domain.Connection, error) {
	if reg == nil {
		reg = domain.NewRegistry()
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = columns
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("header: %w", malformed(err))
	}

	var records []Record
	if err := gocsv.UnmarshalCSVWithoutHeaders(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schedule csv: %w", malformed(err))
	}

	conns := make([]*domain.Connection, 0, len(records))
	for i, rec := range records {
		if rec.blank() {
			continue
		}
		c, err := rec.Connection(reg)
		if err != nil {
			// header is row 1
			return nil, fmt.Errorf("row %d (route %q): %w", i+2, rec.RouteID, err)
		}
		conns = append(conns, c)
	}
	return conns, nil
}

// Connection converts the record, interning names in reg.
func (r Record) Connection(reg *domain.Registry) (*domain.Connection, error) {
	from, err := reg.City(r.DepartureCity)
	if err != nil {
		return nil, malformed(err)
	}
	to, err := reg.City(r.ArrivalCity)
	if err != nil {
		return nil, malformed(err)
	}
	train, err := reg.TrainType(r.TrainType)
	if err != nil {
		return nil, malformed(err)
	}
	dep, err := domain.ParseClock(r.DepartureTime)
	if err != nil {
		return nil, malformed(err)
	}
	arr, nextDay, err := ParseArrival(r.ArrivalTime)
	if err != nil {
		return nil, malformed(err)
	}
	days, err := ParseSchedule(r.Days)
	if err != nil {
		return nil, malformed(err)
	}
	sched, err := domain.NewTrainSchedule(days)
	if err != nil {
		return nil, malformed(err)
	}
	first, err := decimal.NewFromString(strings.TrimSpace(r.FirstClass))
	if err != nil {
		return nil, malformed(fmt.Errorf("first class rate %q: %w", r.FirstClass, err))
	}
	second, err := decimal.NewFromString(strings.TrimSpace(r.SecondClass))
	if err != nil {
		return nil, malformed(fmt.Errorf("second class rate %q: %w", r.SecondClass, err))
	}
	rates, err := domain.NewTicketRates(first, second)
	if err != nil {
		return nil, malformed(err)
	}

	c, err := domain.NewConnection(r.RouteID, train, sched, rates,
		domain.TrainStop{City: from, Time: dep},
		domain.TrainStop{City: to, Time: arr, NextDay: nextDay})
	if err != nil {
		return nil, malformed(err)
	}
	return c, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
}

// ParseArrival parses "HH:MM" with an optional " (+1d)" next-day suffix.
func ParseArrival(raw string) (domain.Clock, bool, error) {
	s := strings.TrimSpace(raw)
	nextDay := strings.HasSuffix(s, nextDaySuffix)
	if nextDay {
		s = strings.TrimSpace(strings.TrimSuffix(s, nextDaySuffix))
	}
	c, err := domain.ParseClock(s)
	if err != nil {
		return 0, false, err
	}
	return c, nextDay, nil
}

// ParseSchedule parses "Daily", comma lists of three-letter days and
// inclusive ranges that may wrap the week, e.g. "Mon,Wed-Fri" or "Sat-Mon".
func ParseSchedule(raw string) (domain.DaySet, error) {
	s := strings.Join(strings.Fields(raw), "")
	if strings.EqualFold(s, "daily") {
		return domain.EveryDay, nil
	}

	var days domain.DaySet
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			from, err := parseAbbrev(start)
			if err != nil {
				return 0, err
			}
			to, err := parseAbbrev(end)
			if err != nil {
				return 0, err
			}
			for d := from; ; d = d.Next() {
				days = days.With(d)
				if d == to {
					break
				}
			}
			continue
		}
		d, err := parseAbbrev(part)
		if err != nil {
			return 0, err
		}
		days = days.With(d)
	}
	return days, nil
}

func parseAbbrev(s string) (domain.Weekday, error) {
	if len(s) != 3 {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownWeekday, s)
	}
	return domain.ParseWeekday(s)
}

// FormatSchedule is the inverse of ParseSchedule.
func FormatSchedule(days domain.DaySet) string {
	if days == domain.EveryDay {
		return "Daily"
	}
	list := days.Days()
	parts := make([]string, len(list))
	for i, d := range list {
		parts[i] = d.Abbrev()
	}
	return strings.Join(parts, ",")
}

// NewRecord converts a connection back to its CSV form.
func NewRecord(c *domain.Connection) Record {
	arr := c.Arrival.Time.String()
	if c.Arrival.NextDay {
		arr += " " + nextDaySuffix
	}
	return Record{
		RouteID:       c.RouteID,
		DepartureCity: c.Departure.City.Name,
		ArrivalCity:   c.Arrival.City.Name,
		DepartureTime: c.Departure.Time.String(),
		ArrivalTime:   arr,
		TrainType:     c.Train.Name,
		Days:          FormatSchedule(c.Days()),
		FirstClass:    c.Rates.FirstClass.StringFixed(2),
		SecondClass:   c.Rates.SecondClass.StringFixed(2),
	}
}

// WriteConnections writes conns as CSV with a header row.
func WriteConnections(out io.Writer, conns []*domain.Connection) error {
	records := make([]Record, len(conns))
	for i, c := range conns {
		records[i] = NewRecord(c)
	}
	return gocsv.Marshal(&records, out)
}
