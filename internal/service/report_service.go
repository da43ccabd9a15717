package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
	"github.com/adityawrmn/campus-eval-api/pkg/export"
	"github.com/adityawrmn/campus-eval-api/pkg/jobs"
	"github.com/adityawrmn/campus-eval-api/pkg/storage"
)

// Report formats.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

type reportJobRepository interface {
	List(ctx context.Context) ([]models.ReportJob, error)
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	Create(ctx context.Context, job *models.ReportJob) error
	Update(ctx context.Context, job *models.ReportJob) error
}

type reportStatsProvider interface {
	Aggregate(ctx context.Context, kind models.EvaluationKind) ([]models.SubjectStats, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportConfig tunes report generation.
type ReportConfig struct {
	APIPrefix         string
	ResultTTL         time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// DownloadLink is the signed download metadata for a completed job.
type DownloadLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ReportService generates statistics exports asynchronously through a
// worker queue.
type ReportService struct {
	repo    reportJobRepository
	stats   reportStatsProvider
	storage fileStorage
	signer  *storage.SignedURLSigner
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	metrics *MetricsService
	cfg     ReportConfig

	queue *jobs.Queue
}

// NewReportService constructs a ReportService and its worker queue. Call
// Start before requesting reports.
func NewReportService(
	repo reportJobRepository,
	stats reportStatsProvider,
	files fileStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg ReportConfig,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}

	s := &ReportService{
		repo:    repo,
		stats:   stats,
		storage: files,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		metrics: metrics,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("reports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the report workers.
func (s *ReportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the report workers.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Request queues a new statistics export.
func (s *ReportService) Request(ctx context.Context, format string, requestedBy int64) (*models.ReportJob, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	job := &models.ReportJob{
		ID:          uuid.NewString(),
		Format:      format,
		Status:      models.ReportPending,
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "report", Payload: job.ID}); err != nil {
		job.Status = models.ReportFailed
		job.Error = "report workers unavailable"
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			s.logger.Warn("failed to mark unqueued job", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue report job")
	}
	return job, nil
}

// List returns all report jobs, newest first.
func (s *ReportService) List(ctx context.Context) ([]models.ReportJob, error) {
	reportJobs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list report jobs")
	}
	return reportJobs, nil
}

// Get returns one report job.
func (s *ReportService) Get(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load report job")
	}
	return job, nil
}

// DownloadLink issues a signed download token for a completed job.
func (s *ReportService) DownloadLink(ctx context.Context, id string) (*DownloadLink, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ReportCompleted || job.FileName == "" {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report is not ready for download")
	}

	token, expiresAt, err := s.signer.Generate(job.ID, job.FileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &DownloadLink{
		Token:     token,
		URL:       fmt.Sprintf("%s/downloads/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and returns a handle to the file.
func (s *ReportService) Open(token string) (*os.File, error) {
	_, fileName, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	file, err := s.storage.Open(fileName)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report file no longer available")
	}
	return file, nil
}

// Cleanup removes report files past their TTL.
func (s *ReportService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("report cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("expired report files removed", zap.Int("count", len(deleted)))
	}
}

func (s *ReportService) process(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.FindByID(ctx, queued.Payload)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", queued.Payload, err)
	}

	job.Status = models.ReportRunning
	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("mark report job running: %w", err)
	}

	fileName, err := s.generate(ctx, job)
	now := time.Now().UTC()
	if err != nil {
		job.Status = models.ReportFailed
		job.Error = err.Error()
		job.CompletedAt = &now
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			s.logger.Error("failed to mark report job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		s.metrics.RecordReportJob(models.ReportFailed)
		return err
	}

	job.Status = models.ReportCompleted
	job.FileName = fileName
	job.Error = ""
	job.CompletedAt = &now
	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("mark report job completed: %w", err)
	}
	s.metrics.RecordReportJob(models.ReportCompleted)

	s.logger.Info("report generated", zap.String("job_id", job.ID), zap.String("file", fileName))
	return nil
}

func (s *ReportService) generate(ctx context.Context, job *models.ReportJob) (string, error) {
	dataset, err := s.buildDataset(ctx)
	if err != nil {
		return "", err
	}

	var payload []byte
	switch job.Format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Evaluation Statistics")
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("evaluation_stats_%s_%s.%s", time.Now().UTC().Format("20060102_150405"), job.ID[:8], job.Format)
	return s.storage.Save(fileName, payload)
}

func (s *ReportService) buildDataset(ctx context.Context) (export.Dataset, error) {
	dataset := export.Dataset{
		Headers: []string{"Kind", "Subject", "Code", "Category", "Average", "Answers", "Evaluations"},
	}
	for _, kind := range []models.EvaluationKind{models.KindLecturer, models.KindFacility} {
		results, err := s.stats.Aggregate(ctx, kind)
		if err != nil {
			return dataset, err
		}
		for _, r := range results {
			dataset.Rows = append(dataset.Rows, []string{
				string(r.Kind),
				r.SubjectName,
				r.SubjectCode,
				r.SubjectCategory,
				strconv.FormatFloat(r.Average, 'f', 2, 64),
				strconv.Itoa(r.AnswerCount),
				strconv.Itoa(r.EvaluationCount),
			})
		}
	}
	return dataset, nil
}
