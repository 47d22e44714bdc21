package service

import (
	"fmt"
	"math"
	"time"
)

// Trend buckets for a subject's score history.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendThreshold is the improvement percentage beyond which a subject
// stops being classified as stable.
const trendThreshold = 5.0

// ScorePoint is one exam result reduced to what the analysis needs.
// Callers pass points ordered by exam date ascending.
type ScorePoint struct {
	ExamName string
	Score    float64
	MaxScore float64
	ExamDate time.Time
}

// Percentage converts the raw score to a 0-100 scale.
func (p ScorePoint) Percentage() float64 {
	if p.MaxScore == 0 {
		return 0
	}
	return p.Score / p.MaxScore * 100
}

// SubjectProgress is the per-subject summary shown on the dashboard.
type SubjectProgress struct {
	Subject      string   `json:"subject"`
	ResultCount  int      `json:"result_count"`
	AverageScore float64  `json:"average_score"`
	Improvement  *float64 `json:"improvement"`
	Trend        string   `json:"trend"`
}

// VisualizationSeries holds parallel arrays for the mobile chart:
// one label per exam, the percentage scored, and the running average
// up to and including that exam.
type VisualizationSeries struct {
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
	Averages []float64 `json:"averages"`
}

// CalculateImprovement compares the average percentage of the earlier
// half of the results against the later half. Returns nil with fewer
// than two results. The first half takes floor(n/2) points so the later
// half is never smaller. A first-half average of exactly zero also
// returns nil instead of producing an infinite ratio.
func CalculateImprovement(points []ScorePoint) *float64 {
	if len(points) < 2 {
		return nil
	}

	half := len(points) / 2
	firstAvg := averagePercentage(points[:half])
	secondAvg := averagePercentage(points[half:])

	if firstAvg == 0 {
		return nil
	}

	improvement := round2((secondAvg - firstAvg) / firstAvg * 100)
	return &improvement
}

// ClassifyTrend maps an improvement value onto the three trend buckets.
// A nil improvement counts as stable.
func ClassifyTrend(improvement *float64) string {
	if improvement == nil {
		return TrendStable
	}
	switch {
	case *improvement > trendThreshold:
		return TrendImproving
	case *improvement < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// BuildSubjectProgress summarizes one subject's history. An empty
// history yields a zero average, nil improvement and a stable trend.
func BuildSubjectProgress(subject string, points []ScorePoint) SubjectProgress {
	progress := SubjectProgress{
		Subject:     subject,
		ResultCount: len(points),
		Trend:       TrendStable,
	}
	if len(points) == 0 {
		return progress
	}

	progress.AverageScore = round2(averagePercentage(points))
	progress.Improvement = CalculateImprovement(points)
	progress.Trend = ClassifyTrend(progress.Improvement)
	return progress
}

// BuildVisualizationSeries turns an ascending-by-date result list into
// the chart arrays. Empty input yields empty arrays, not nil panics.
func BuildVisualizationSeries(points []ScorePoint) VisualizationSeries {
	series := VisualizationSeries{
		Labels:   make([]string, 0, len(points)),
		Scores:   make([]float64, 0, len(points)),
		Averages: make([]float64, 0, len(points)),
	}

	var sum float64
	for i, p := range points {
		pct := p.Percentage()
		sum += pct

		series.Labels = append(series.Labels,
			fmt.Sprintf("%s (%s)", p.ExamName, p.ExamDate.Format("02/01/2006")))
		series.Scores = append(series.Scores, round2(pct))
		series.Averages = append(series.Averages, round2(sum/float64(i+1)))
	}
	return series
}

func averagePercentage(points []ScorePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Percentage()
	}
	return sum / float64(len(points))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
