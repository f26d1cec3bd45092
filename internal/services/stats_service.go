package services

import (
	"sort"
	"strings"
	"time"

	"moodiary/internal/models"
)

// Summary holds the aggregate statistics for a user's mood entries.
type Summary struct {
	TotalEntries  int             `json:"total_entries"`
	AvgScore      float64         `json:"avg_score"`
	MaxScore      int             `json:"max_score"`
	MinScore      int             `json:"min_score"`
	EmojiCounts   map[string]int  `json:"emoji_counts"`
	TopActivities []ActivityCount `json:"top_activities"`
}

// ActivityCount pairs an activity token with its occurrence count.
type ActivityCount struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

// MonthlyAverage is the mean mood score for one calendar month.
type MonthlyAverage struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Label    string     `json:"label"`
	AvgScore float64    `json:"avg_score"`
}

// Summarize computes summary statistics over a user's entries. It performs
// no I/O; the caller supplies the entries. An empty input yields the
// zero-value summary with an empty (not nil) emoji map.
func Summarize(entries []models.MoodEntry) Summary {
	summary := Summary{
		EmojiCounts:   map[string]int{},
		TopActivities: []ActivityCount{},
	}
	if len(entries) == 0 {
		return summary
	}

	summary.TotalEntries = len(entries)
	total := 0
	summary.MaxScore = entries[0].MoodScore
	summary.MinScore = entries[0].MoodScore
	for _, e := range entries {
		total += e.MoodScore
		if e.MoodScore > summary.MaxScore {
			summary.MaxScore = e.MoodScore
		}
		if e.MoodScore < summary.MinScore {
			summary.MinScore = e.MoodScore
		}
		if e.Emoji != "" {
			summary.EmojiCounts[e.Emoji]++
		}
	}
	summary.AvgScore = float64(total) / float64(len(entries))
	summary.TopActivities = topActivities(entries, 5)
	return summary
}

// topActivities counts activity tokens across all entries and returns the n
// highest. A token repeated within one entry counts each time. Ties keep
// first-encountered order, so the sort must be stable over that order.
func topActivities(entries []models.MoodEntry, n int) []ActivityCount {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		if e.Activities == "" {
			continue
		}
		for _, token := range strings.Split(e.Activities, ",") {
			activity := strings.TrimSpace(token)
			if activity == "" {
				continue
			}
			if _, seen := counts[activity]; !seen {
				order = append(order, activity)
			}
			counts[activity]++
		}
	}

	ranked := make([]ActivityCount, 0, len(order))
	for _, activity := range order {
		ranked = append(ranked, ActivityCount{Activity: activity, Count: counts[activity]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MonthlyAverages buckets entries by calendar month and computes the mean
// mood score per bucket, in chronological order. Entries are expected in
// ascending date order, as the repository returns them.
func MonthlyAverages(entries []models.MoodEntry) []MonthlyAverage {
	type bucket struct {
		total int
		count int
	}
	type key struct {
		year  int
		month time.Month
	}
	buckets := map[key]*bucket{}
	var order []key
	for _, e := range entries {
		k := key{year: e.Date.Year(), month: e.Date.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		b.total += e.MoodScore
		b.count++
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].month < order[j].month
	})

	averages := make([]MonthlyAverage, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		averages = append(averages, MonthlyAverage{
			Year:     k.year,
			Month:    k.month,
			Label:    time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			AvgScore: float64(b.total) / float64(b.count),
		})
	}
	return averages
}
