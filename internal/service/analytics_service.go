package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"dispatchqa/internal/cache"
	"dispatchqa/internal/model"
	"dispatchqa/internal/repository"
)

// AnalyticsService computes the dashboard aggregates: call-type breakdown,
// volume buckets, and the dispatcher leaderboard.
type AnalyticsService struct {
	callRepo    repository.CallRepo
	evalRepo    repository.EvaluationRepo
	leaderboard cache.LeaderboardCache
}

func NewAnalyticsService(callRepo repository.CallRepo, evalRepo repository.EvaluationRepo, leaderboard cache.LeaderboardCache) *AnalyticsService {
	return &AnalyticsService{
		callRepo:    callRepo,
		evalRepo:    evalRepo,
		leaderboard: leaderboard,
	}
}

// CallsByType returns the per-type call counts for the breakdown chart
func (s *AnalyticsService) CallsByType(ctx context.Context) ([]model.TypeCount, error) {
	counts, err := s.callRepo.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count calls by type: %w", err)
	}
	return counts, nil
}

// VolumeByHour buckets call submissions into two-hour slots for the volume
// chart, mirroring the dashboard's 00:00..22:00 axis.
func (s *AnalyticsService) VolumeByHour(ctx context.Context) ([]model.VolumePoint, error) {
	calls, err := s.callRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calls for volume chart: %w", err)
	}

	buckets := make(map[int]int)
	for _, c := range calls {
		slot := (c.Submitted.Hour() / 2) * 2
		buckets[slot]++
	}

	points := make([]model.VolumePoint, 0, 12)
	for h := 0; h < 24; h += 2 {
		points = append(points, model.VolumePoint{
			Bucket: fmt.Sprintf("%02d:00", h),
			Calls:  buckets[h],
		})
	}
	return points, nil
}

// DispatcherLeaderboard ranks dispatchers by average grade score across
// their processed calls. Scores are pushed into the Redis ZSET so other
// surfaces can read ranks cheaply.
func (s *AnalyticsService) DispatcherLeaderboard(ctx context.Context, limit int) ([]model.DispatcherStats, error) {
	calls, err := s.callRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calls for leaderboard: %w", err)
	}

	type agg struct {
		total  int
		graded int
		sum    float64
		// first/second half of the graded sequence, for the trend arrow
		firstSum, secondSum     float64
		firstCount, secondCount int
	}
	byDispatcher := make(map[string]*agg)

	for _, c := range calls {
		a := byDispatcher[c.Dispatcher]
		if a == nil {
			a = &agg{}
			byDispatcher[c.Dispatcher] = a
		}
		a.total++
		if c.GradeScore != nil {
			a.graded++
			a.sum += float64(*c.GradeScore)
		}
	}

	// second pass for trend: calls come newest first from the repo
	for _, c := range calls {
		if c.GradeScore == nil {
			continue
		}
		a := byDispatcher[c.Dispatcher]
		if a.firstCount < a.graded/2 || a.graded < 2 {
			a.firstSum += float64(*c.GradeScore)
			a.firstCount++
		} else {
			a.secondSum += float64(*c.GradeScore)
			a.secondCount++
		}
	}

	stats := make([]model.DispatcherStats, 0, len(byDispatcher))
	for name, a := range byDispatcher {
		if a.graded == 0 {
			continue
		}
		avg := a.sum / float64(a.graded)

		trend := model.TrendStable
		if a.firstCount > 0 && a.secondCount > 0 {
			recent := a.firstSum / float64(a.firstCount)
			older := a.secondSum / float64(a.secondCount)
			switch {
			case recent > older+1:
				trend = model.TrendUp
			case recent < older-1:
				trend = model.TrendDown
			}
		}

		stats = append(stats, model.DispatcherStats{
			Name:       name,
			TotalCalls: a.total,
			AvgScore:   avg,
			Trend:      trend,
		})

		if err := s.leaderboard.UpdateScore(ctx, name, avg); err != nil {
			log.Printf("Warning: failed to update leaderboard for %s: %v", name, err)
		}
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].AvgScore > stats[j].AvgScore })
	for i := range stats {
		stats[i].Rank = i + 1
	}
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

// Dashboard returns the headline summary block
func (s *AnalyticsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	calls, err := s.callRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calls for dashboard: %w", err)
	}

	stats := &model.DashboardStats{GeneratedAt: time.Now()}
	var gradeSum float64
	var graded int
	for _, c := range calls {
		stats.TotalCalls++
		switch c.Status {
		case model.CallProcessed:
			stats.ProcessedCalls++
		case model.CallFailed:
			stats.FailedCalls++
		}
		if c.GradeScore != nil {
			graded++
			gradeSum += float64(*c.GradeScore)
		}
	}
	if graded > 0 {
		stats.AvgGradeScore = gradeSum / float64(graded)
	}
	return stats, nil
}
