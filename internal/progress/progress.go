// Package progress turns the flat history log into chart-ready series.
// Every function is pure: grouping is keyed by calendar date and ids, never
// by input position, so shuffled input produces identical output.
package progress

import (
	"sort"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

const dateLayout = "2006-01-02"

// dayOf truncates a timestamp to its calendar date as stored. No timezone
// normalization is applied.
func dayOf(t time.Time) string {
	return t.Format(dateLayout)
}

// Occurrence is one distinct workout: all history entries sharing a
// calendar date, program, and session.
type Occurrence struct {
	Date      string                       `json:"date"`
	ProgramID string                       `json:"programId"`
	SessionID string                       `json:"sessionId"`
	Sets      []models.WorkoutHistoryEntry `json:"sets"`
}

// Occurrences partitions history into workout occurrences, ordered
// newest-first by date (then by program and session id for a total order).
// Sets within an occurrence are ordered by completion time, then id.
func Occurrences(history []models.WorkoutHistoryEntry) []Occurrence {
	type key struct {
		date, programID, sessionID string
	}
	buckets := map[key]*Occurrence{}
	for _, h := range history {
		k := key{dayOf(h.CompletedAt), h.ProgramID, h.SessionID}
		occ, ok := buckets[k]
		if !ok {
			occ = &Occurrence{Date: k.date, ProgramID: k.programID, SessionID: k.sessionID}
			buckets[k] = occ
		}
		occ.Sets = append(occ.Sets, h)
	}

	out := make([]Occurrence, 0, len(buckets))
	for _, occ := range buckets {
		sort.Slice(occ.Sets, func(i, j int) bool {
			a, b := occ.Sets[i], occ.Sets[j]
			if !a.CompletedAt.Equal(b.CompletedAt) {
				return a.CompletedAt.Before(b.CompletedAt)
			}
			return a.ID < b.ID
		})
		out = append(out, *occ)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].ProgramID != out[j].ProgramID {
			return out[i].ProgramID < out[j].ProgramID
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

// ExercisePoint is one day's aggregate for a single exercise. Two sets on
// the same day collapse into one point.
type ExercisePoint struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"maxWeight"`
	TotalReps int     `json:"totalReps"`
	Volume    float64 `json:"volume"`
	SetCount  int     `json:"setCount"`
}

// ExerciseProgression filters history to one exercise and aggregates per
// calendar date: max weight, total reps, volume (Σ weight·reps), and set
// count. The result ascends by date.
func ExerciseProgression(history []models.WorkoutHistoryEntry, exerciseID string) []ExercisePoint {
	byDate := map[string]*ExercisePoint{}
	for _, h := range history {
		if h.ExerciseID != exerciseID {
			continue
		}
		date := dayOf(h.CompletedAt)
		pt, ok := byDate[date]
		if !ok {
			pt = &ExercisePoint{Date: date}
			byDate[date] = pt
		}
		if h.Weight > pt.MaxWeight {
			pt.MaxWeight = h.Weight
		}
		pt.TotalReps += h.Reps
		pt.Volume += h.Weight * float64(h.Reps)
		pt.SetCount++
	}
	return sortedByDate(byDate)
}

// SessionPoint is one day's aggregate across a filtered history subset.
type SessionPoint struct {
	Date      string  `json:"date"`
	Volume    float64 `json:"volume"`
	TotalSets int     `json:"totalSets"`
}

// SessionProgression aggregates the given (typically pre-filtered) history
// per calendar date: volume and set count, ascending by date.
func SessionProgression(history []models.WorkoutHistoryEntry) []SessionPoint {
	byDate := map[string]*SessionPoint{}
	for _, h := range history {
		date := dayOf(h.CompletedAt)
		pt, ok := byDate[date]
		if !ok {
			pt = &SessionPoint{Date: date}
			byDate[date] = pt
		}
		pt.Volume += h.Weight * float64(h.Reps)
		pt.TotalSets++
	}
	return sortedByDate(byDate)
}

// Filter returns the subset of history matching the given ids. An empty id
// matches everything, mirroring the "all" filter on the history view.
func Filter(history []models.WorkoutHistoryEntry, programID, sessionID, exerciseID string) []models.WorkoutHistoryEntry {
	out := make([]models.WorkoutHistoryEntry, 0, len(history))
	for _, h := range history {
		if programID != "" && h.ProgramID != programID {
			continue
		}
		if sessionID != "" && h.SessionID != sessionID {
			continue
		}
		if exerciseID != "" && h.ExerciseID != exerciseID {
			continue
		}
		out = append(out, h)
	}
	return out
}

func sortedByDate[T any](byDate map[string]*T) []T {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]T, 0, len(dates))
	for _, d := range dates {
		out = append(out, *byDate[d])
	}
	return out
}
