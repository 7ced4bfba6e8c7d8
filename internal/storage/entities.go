package storage

import (
	"time"

	"github.com/sandeepkv93/petd/internal/model"
)

// DaySummary is the closing record of one rolled-over day.
type DaySummary struct {
	Key              string
	Day              model.Day
	CompletedTaskIDs []string
	CatalogSize      int
	PointsEarned     int
	Happiness        int
	RecordedAt       time.Time
}

type DayListFilter struct {
	Key    string
	Limit  int
	Offset int
}

// DayStats aggregates day summaries for report prompts.
type DayStats struct {
	DaysTracked      int
	AverageHappiness int
	FullDays         int
	MostCompleted    string
	LeastCompleted   string
}

// Summarize folds days into DayStats. Ties on most/least completed go to the earlier catalog task.
func Summarize(days []DaySummary, catalog *model.Catalog) DayStats {
	var out DayStats
	if len(days) == 0 {
		return out
	}
	counts := make(map[string]int)
	total := 0
	for _, d := range days {
		total += d.Happiness
		if d.CatalogSize > 0 && len(d.CompletedTaskIDs) >= d.CatalogSize {
			out.FullDays++
		}
		for _, id := range d.CompletedTaskIDs {
			counts[id]++
		}
	}
	out.DaysTracked = len(days)
	out.AverageHappiness = (total + len(days)/2) / len(days)
	if catalog == nil {
		return out
	}

	most, least := -1, -1
	for _, task := range catalog.Tasks() {
		n := counts[task.ID]
		if n > most {
			most = n
			out.MostCompleted = task.Label
		}
		if least < 0 || n < least {
			least = n
			out.LeastCompleted = task.Label
		}
	}
	return out
}
