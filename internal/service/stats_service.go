package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

type evaluationLister interface {
	ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error)
}

type studentCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

// StatsServiceConfig tunes aggregation behaviour.
type StatsServiceConfig struct {
	AttentionThreshold float64
	TopRankLimit       int
	FallbackStudents   int
}

// StatsService computes rating aggregates from the raw evaluation logs.
// Nothing is cached; every call re-reads the store.
type StatsService struct {
	evaluations evaluationLister
	users       studentCounter
	logger      *zap.Logger
	now         func() time.Time
	cfg         StatsServiceConfig
}

// NewStatsService constructs a StatsService with sane defaults.
func NewStatsService(evaluations evaluationLister, users studentCounter, logger *zap.Logger, cfg StatsServiceConfig) *StatsService {
	if cfg.AttentionThreshold <= 0 {
		cfg.AttentionThreshold = 3.5
	}
	if cfg.TopRankLimit <= 0 {
		cfg.TopRankLimit = 5
	}
	if cfg.FallbackStudents <= 0 {
		cfg.FallbackStudents = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		evaluations: evaluations,
		users:       users,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// Aggregate groups one kind's evaluations by subject and computes averages,
// rounded to two decimals for presentation.
func (s *StatsService) Aggregate(ctx context.Context, kind models.EvaluationKind) ([]models.SubjectStats, error) {
	results, err := s.aggregate(ctx, kind)
	if err != nil {
		return nil, err
	}
	return roundAverages(results), nil
}

// aggregate computes per-subject averages at full float64 precision. Sorting
// and threshold checks run on the raw value; rounding happens only when the
// results leave the service, so near-threshold subjects are not misplaced.
// Results sort by average descending; ties break by ascending subject id so
// rankings are deterministic.
func (s *StatsService) aggregate(ctx context.Context, kind models.EvaluationKind) ([]models.SubjectStats, error) {
	evaluations, err := s.evaluations.ListByKind(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluations")
	}

	groups := make(map[int64]*models.SubjectStats)
	order := make([]int64, 0)
	for _, e := range evaluations {
		stats, ok := groups[e.SubjectID]
		if !ok {
			stats = &models.SubjectStats{
				Kind:            kind,
				SubjectID:       e.SubjectID,
				SubjectName:     e.SubjectName,
				SubjectCode:     e.SubjectCode,
				SubjectCategory: e.SubjectCategory,
			}
			groups[e.SubjectID] = stats
			order = append(order, e.SubjectID)
		}
		stats.EvaluationCount++
		for _, a := range e.Answers {
			stats.RatingSum += a.Rating
			stats.AnswerCount++
		}
	}

	results := make([]models.SubjectStats, 0, len(order))
	for _, id := range order {
		stats := groups[id]
		if stats.AnswerCount > 0 {
			stats.Average = float64(stats.RatingSum) / float64(stats.AnswerCount)
		}
		results = append(results, *stats)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Average != results[j].Average {
			return results[i].Average > results[j].Average
		}
		return results[i].SubjectID < results[j].SubjectID
	})
	return results, nil
}

// TopLecturers returns the highest rated lecturers, capped to the rank
// limit.
func (s *StatsService) TopLecturers(ctx context.Context) ([]models.SubjectStats, error) {
	results, err := s.aggregate(ctx, models.KindLecturer)
	if err != nil {
		return nil, err
	}
	if len(results) > s.cfg.TopRankLimit {
		results = results[:s.cfg.TopRankLimit]
	}
	return roundAverages(results), nil
}

// FacilitiesNeedingAttention returns facilities rated below the attention
// threshold, worst first, capped to the rank limit.
func (s *StatsService) FacilitiesNeedingAttention(ctx context.Context) ([]models.SubjectStats, error) {
	results, err := s.aggregate(ctx, models.KindFacility)
	if err != nil {
		return nil, err
	}

	flagged := make([]models.SubjectStats, 0)
	for _, r := range results {
		if r.Average < s.cfg.AttentionThreshold {
			flagged = append(flagged, r)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		if flagged[i].Average != flagged[j].Average {
			return flagged[i].Average < flagged[j].Average
		}
		return flagged[i].SubjectID < flagged[j].SubjectID
	})
	if len(flagged) > s.cfg.TopRankLimit {
		flagged = flagged[:s.cfg.TopRankLimit]
	}
	return roundAverages(flagged), nil
}

// Dashboard composes the admin dashboard payload. Time buckets compare
// against the wall clock at call time, so successive calls can differ.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	lecturerEvals, err := s.evaluations.ListByKind(ctx, models.KindLecturer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluations")
	}
	facilityEvals, err := s.evaluations.ListByKind(ctx, models.KindFacility)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluations")
	}

	now := s.now().UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &models.DashboardStats{
		LecturerEvaluations: len(lecturerEvals),
		FacilityEvaluations: len(facilityEvals),
	}

	respondents := make(map[int64]struct{})
	all := append(append([]models.Evaluation{}, lecturerEvals...), facilityEvals...)
	stats.TotalEvaluations = len(all)
	for _, e := range all {
		respondents[e.RespondentID] = struct{}{}
		submitted := e.SubmittedAt.UTC()
		if !submitted.Before(startOfToday) {
			stats.TodayEvaluations++
		}
		if !submitted.Before(startOfWeek) {
			stats.WeekEvaluations++
		}
		if !submitted.Before(startOfMonth) {
			stats.MonthEvaluations++
		}
	}
	stats.UniqueRespondents = len(respondents)

	students, err := s.users.CountStudents(ctx)
	if err != nil || students == 0 {
		students = s.cfg.FallbackStudents
	}
	stats.TotalStudents = students
	stats.ParticipationRate = round2(float64(stats.UniqueRespondents) / float64(students) * 100)

	if stats.TopLecturers, err = s.TopLecturers(ctx); err != nil {
		return nil, err
	}
	if stats.FacilitiesAttention, err = s.FacilitiesNeedingAttention(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyTrend counts submissions per calendar month over the trailing
// window, oldest month first.
func (s *StatsService) MonthlyTrend(ctx context.Context, months int) ([]models.MonthlyTrendPoint, error) {
	if months <= 0 {
		months = 6
	}

	lecturerEvals, err := s.evaluations.ListByKind(ctx, models.KindLecturer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluations")
	}
	facilityEvals, err := s.evaluations.ListByKind(ctx, models.KindFacility)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluations")
	}

	now := s.now().UTC()
	points := make([]models.MonthlyTrendPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i-months+1, 0)
		label := month.Format("2006-01")
		points[i] = models.MonthlyTrendPoint{Month: label}
		index[label] = i
	}

	for _, e := range lecturerEvals {
		if i, ok := index[e.SubmittedAt.UTC().Format("2006-01")]; ok {
			points[i].Lecturer++
			points[i].Total++
		}
	}
	for _, e := range facilityEvals {
		if i, ok := index[e.SubmittedAt.UTC().Format("2006-01")]; ok {
			points[i].Facility++
			points[i].Total++
		}
	}
	return points, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func roundAverages(results []models.SubjectStats) []models.SubjectStats {
	for i := range results {
		results[i].Average = round2(results[i].Average)
	}
	return results
}
