// Package stats summarises a repository's commit history.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/thomas-vilte/gravitycommit/internal/commit"
	"github.com/thomas-vilte/gravitycommit/internal/models"
)

type HistoryReader interface {
	RecentCommits(ctx context.Context, count int) ([]models.CommitInfo, error)
}

type Count struct {
	Name  string
	Count int
}

type Report struct {
	Total        int
	Automatic    int
	FilesChanged int
	First        time.Time
	Last         time.Time
	ByAuthor     []Count
	ByDay        []Count
	ByCategory   []Count
}

// Collect reads up to limit commits (all when limit <= 0) and summarises them.
func Collect(ctx context.Context, history HistoryReader, limit int) (Report, error) {
	commits, err := history.RecentCommits(ctx, limit)
	if err != nil {
		return Report{}, err
	}
	return Compute(commits), nil
}

// Compute builds a report. Authors and categories are ordered by count,
// days chronologically. Only messages produced by the renderer count as
// automatic and get a category.
func Compute(commits []models.CommitInfo) Report {
	r := Report{Total: len(commits)}
	authors := map[string]int{}
	days := map[string]int{}
	categories := map[string]int{}

	for _, c := range commits {
		r.FilesChanged += c.FilesChanged
		authors[c.Author]++
		if !c.Date.IsZero() {
			days[c.Date.Format(time.DateOnly)]++
			if r.First.IsZero() || c.Date.Before(r.First) {
				r.First = c.Date
			}
			if c.Date.After(r.Last) {
				r.Last = c.Date
			}
		}
		if cat, ok := commit.CategoryFromMessage(c.Message); ok {
			r.Automatic++
			categories[cat.String()]++
		}
	}

	r.ByAuthor = byCount(authors)
	r.ByCategory = byCount(categories)
	r.ByDay = byName(days)
	return r
}

func byCount(m map[string]int) []Count {
	out := byName(m)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func byName(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
