package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/domain"
)

// TimeGroup holds the events sharing one (start, end) pair within a
// day. Events keep the input order.
type TimeGroup struct {
	Start  string // "15:45"
	End    string // "19:15"
	Events []domain.Event
}

// DayGroup holds one calendar day's time groups, ascending by start.
type DayGroup struct {
	Day    time.Time
	Groups []TimeGroup
}

// WeekGroup holds one ISO week's day groups, chronological.
type WeekGroup struct {
	Week string // "2025-W40"
	Days []DayGroup
}

// ISOWeekKey returns the Monday-start ISO week key for a day, with the
// week number zero-padded: "2025-W03". A day belongs to exactly one
// ISO week, which near year boundaries may carry the neighboring year.
func ISOWeekKey(day time.Time) string {
	year, week := day.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// GroupByDay partitions events by calendar day for the month and week
// calendar views. Keys are "2006-01-02"; events within a day keep the
// input order, ordering beyond that is up to the caller.
func GroupByDay(events []domain.Event) map[string][]domain.Event {
	byDay := make(map[string][]domain.Event)
	for _, e := range events {
		key := e.DayKey()
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

// GroupByWeek builds the nested week → day → (start, end) grouping
// used for listing booked coaching slots. Every level is sorted
// ascending; events within a time group keep the input order. Each
// input event lands in exactly one leaf group.
func GroupByWeek(events []domain.Event) []WeekGroup {
	type timeKey struct {
		start string
		end   string
	}

	weeks := make(map[string]map[string]map[timeKey][]domain.Event)
	for _, e := range events {
		wk := ISOWeekKey(e.Start)
		day := e.DayKey()
		tk := timeKey{start: e.Start.Format("15:04"), end: e.End.Format("15:04")}

		if weeks[wk] == nil {
			weeks[wk] = make(map[string]map[timeKey][]domain.Event)
		}
		if weeks[wk][day] == nil {
			weeks[wk][day] = make(map[timeKey][]domain.Event)
		}
		weeks[wk][day][tk] = append(weeks[wk][day][tk], e)
	}

	weekKeys := make([]string, 0, len(weeks))
	for wk := range weeks {
		weekKeys = append(weekKeys, wk)
	}
	sort.Strings(weekKeys)

	result := make([]WeekGroup, 0, len(weekKeys))
	for _, wk := range weekKeys {
		dayKeys := make([]string, 0, len(weeks[wk]))
		for day := range weeks[wk] {
			dayKeys = append(dayKeys, day)
		}
		sort.Strings(dayKeys)

		days := make([]DayGroup, 0, len(dayKeys))
		for _, dayKey := range dayKeys {
			byTime := weeks[wk][dayKey]

			timeKeys := make([]timeKey, 0, len(byTime))
			for tk := range byTime {
				timeKeys = append(timeKeys, tk)
			}
			sort.Slice(timeKeys, func(i, j int) bool {
				if timeKeys[i].start != timeKeys[j].start {
					return timeKeys[i].start < timeKeys[j].start
				}
				return timeKeys[i].end < timeKeys[j].end
			})

			groups := make([]TimeGroup, 0, len(timeKeys))
			for _, tk := range timeKeys {
				groups = append(groups, TimeGroup{
					Start:  tk.start,
					End:    tk.end,
					Events: byTime[tk],
				})
			}

			day, _ := time.Parse("2006-01-02", dayKey)
			days = append(days, DayGroup{Day: day, Groups: groups})
		}

		result = append(result, WeekGroup{Week: wk, Days: days})
	}

	return result
}

// Upcoming filters events to the window [today, today+days] and sorts
// them by (date, start time). Events on later days are kept regardless
// of time of day; events on today are kept only while still running or
// ahead (end after now). The feed export does not use this filter, it
// serves UI summaries.
func Upcoming(events []domain.Event, now time.Time, days int) []domain.Event {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last := today.AddDate(0, 0, days)

	var upcoming []domain.Event
	for _, e := range events {
		day := time.Date(e.Start.Year(), e.Start.Month(), e.Start.Day(), 0, 0, 0, 0, now.Location())
		if day.Before(today) || day.After(last) {
			continue
		}
		if day.Equal(today) && !e.End.After(now) {
			continue
		}
		upcoming = append(upcoming, e)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})

	return upcoming
}
