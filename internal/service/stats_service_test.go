package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
)

type evaluationListerStub struct {
	byKind map[models.EvaluationKind][]models.Evaluation
	err    error
}

func (s evaluationListerStub) ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byKind[kind], nil
}

type studentCounterStub struct {
	count int
	err   error
}

func (s studentCounterStub) CountStudents(ctx context.Context) (int, error) {
	return s.count, s.err
}

func answersOf(ratings ...int) []models.Answer {
	answers := make([]models.Answer, len(ratings))
	for i, r := range ratings {
		answers[i] = models.Answer{QuestionID: int64(i + 1), Rating: r}
	}
	return answers
}

func TestStatsServiceAggregate(t *testing.T) {
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{SubjectID: 1, SubjectName: "Ahmad Fauzi", Answers: answersOf(5, 4, 3)},
			{SubjectID: 1, SubjectName: "Ahmad Fauzi", Answers: answersOf(4, 4)},
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{count: 10}, nil, StatsServiceConfig{})

	results, err := svc.Aggregate(context.Background(), models.KindLecturer)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 4.00, results[0].Average)
	assert.Equal(t, 2, results[0].EvaluationCount)
	assert.Equal(t, 5, results[0].AnswerCount)
}

func TestStatsServiceAggregateTieBreaksBySubjectID(t *testing.T) {
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{SubjectID: 7, Answers: answersOf(4)},
			{SubjectID: 2, Answers: answersOf(4)},
			{SubjectID: 5, Answers: answersOf(5)},
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{}, nil, StatsServiceConfig{})

	results, err := svc.Aggregate(context.Background(), models.KindLecturer)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(5), results[0].SubjectID)
	assert.Equal(t, int64(2), results[1].SubjectID)
	assert.Equal(t, int64(7), results[2].SubjectID)
}

func TestStatsServiceFacilitiesNeedingAttention(t *testing.T) {
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindFacility: {
			{SubjectID: 1, SubjectName: "Toilet Gedung A", Answers: answersOf(2, 2)},
			{SubjectID: 2, SubjectName: "Kantin Kampus", Answers: answersOf(3, 3)},
			{SubjectID: 3, SubjectName: "Perpustakaan", Answers: answersOf(5, 5)},
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{}, nil, StatsServiceConfig{})

	flagged, err := svc.FacilitiesNeedingAttention(context.Background())
	require.NoError(t, err)
	require.Len(t, flagged, 2)
	assert.Equal(t, int64(1), flagged[0].SubjectID, "worst rated facility sorts first")
	assert.Equal(t, int64(2), flagged[1].SubjectID)
}

func repeatRatings(n, rating int) []int {
	ratings := make([]int, n)
	for i := range ratings {
		ratings[i] = rating
	}
	return ratings
}

func TestStatsServiceAttentionThresholdUsesRawAverage(t *testing.T) {
	// 99 fours + 101 threes: 699/200 = 3.495, which rounds up to 3.50.
	// The threshold comparison must see the raw value and still flag it.
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindFacility: {
			{SubjectID: 1, SubjectName: "Toilet Gedung A", Answers: answersOf(repeatRatings(99, 4)...)},
			{SubjectID: 1, SubjectName: "Toilet Gedung A", Answers: answersOf(repeatRatings(101, 3)...)},
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{}, nil, StatsServiceConfig{})

	flagged, err := svc.FacilitiesNeedingAttention(context.Background())
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, int64(1), flagged[0].SubjectID)
	assert.InDelta(t, 3.5, flagged[0].Average, 0.01, "reported average is rounded for display")
}

func TestStatsServiceRankingUsesRawAverage(t *testing.T) {
	// 999/250 = 3.996 and 1001/250 = 4.004 both display as 4.00, but the
	// ranking must order them by the raw averages, not fall to the id
	// tie-break.
	lower := append(repeatRatings(249, 4), 3)
	higher := append(repeatRatings(249, 4), 5)
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{SubjectID: 1, Answers: answersOf(lower...)},
			{SubjectID: 2, Answers: answersOf(higher...)},
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{}, nil, StatsServiceConfig{})

	results, err := svc.Aggregate(context.Background(), models.KindLecturer)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].SubjectID, "higher raw average ranks first")
	assert.Equal(t, 4.00, results[0].Average)
	assert.Equal(t, 4.00, results[1].Average)
}

func TestStatsServiceDashboardBuckets(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC) // a Wednesday
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{RespondentID: 1, SubmittedAt: now.Add(-2 * time.Hour)},                      // today
			{RespondentID: 2, SubmittedAt: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)}, // this week
			{RespondentID: 1, SubmittedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},  // this month
		},
		models.KindFacility: {
			{RespondentID: 3, SubmittedAt: time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)}, // older
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{count: 50}, nil, StatsServiceConfig{})
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEvaluations)
	assert.Equal(t, 1, stats.TodayEvaluations)
	assert.Equal(t, 2, stats.WeekEvaluations)
	assert.Equal(t, 3, stats.MonthEvaluations)
	assert.Equal(t, 3, stats.LecturerEvaluations)
	assert.Equal(t, 1, stats.FacilityEvaluations)
	assert.Equal(t, 3, stats.UniqueRespondents)
	assert.Equal(t, 50, stats.TotalStudents)
	assert.Equal(t, 6.00, stats.ParticipationRate)
}

func TestStatsServiceDashboardFallbackStudents(t *testing.T) {
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{}}
	svc := NewStatsService(lister, studentCounterStub{count: 0}, nil, StatsServiceConfig{FallbackStudents: 100})

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalStudents)
	assert.Zero(t, stats.ParticipationRate)
}

func TestStatsServiceMonthlyTrend(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
	lister := evaluationListerStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{SubmittedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
			{SubmittedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
		models.KindFacility: {
			{SubmittedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
			{SubmittedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}, // outside window
		},
	}}
	svc := NewStatsService(lister, studentCounterStub{}, nil, StatsServiceConfig{})
	svc.now = func() time.Time { return now }

	points, err := svc.MonthlyTrend(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, "2023-10", points[0].Month)
	assert.Equal(t, "2024-03", points[5].Month)
	assert.Equal(t, 1, points[5].Lecturer)
	assert.Equal(t, 1, points[5].Facility)
	assert.Equal(t, 2, points[5].Total)
	assert.Equal(t, 1, points[3].Lecturer)
}
