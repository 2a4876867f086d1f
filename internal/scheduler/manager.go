// Package scheduler runs periodic maintenance jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

// CourseJobs is the part of the course service the jobs drive.
type CourseJobs interface {
	WarmPopular(ctx context.Context) ([]entity.Course, error)
	Reindex(ctx context.Context) (int, error)
}

const (
	JobWarmPopular = "warm_popular_courses"
	JobReindex     = "reindex_courses"

	reindexSpec = "0 0 * * * *"
	jobTimeout  = 2 * time.Minute
)

type Manager struct {
	cron      *cron.Cron
	courses   CourseJobs
	warmEvery time.Duration
	logger    *logrus.Logger
}

// NewManager schedules the popular-course warm-up at half the cache TTL so the
// cached list never expires between runs.
func NewManager(courses CourseJobs, popularTTL time.Duration, logger *logrus.Logger) *Manager {
	every := popularTTL / 2
	if every < time.Second {
		every = time.Second
	}
	return &Manager{
		cron:      cron.New(cron.WithSeconds()),
		courses:   courses,
		warmEvery: every,
		logger:    logger,
	}
}

func (m *Manager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.WithField("jobs", len(m.cron.Entries())).Info("cron jobs started")
	return nil
}

// Stop waits for running jobs to finish.
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info("cron jobs stopped")
}

func (m *Manager) registerJobs() error {
	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.warmEvery), m.WarmPopular); err != nil {
		return fmt.Errorf("schedule %s: %w", JobWarmPopular, err)
	}
	if _, err := m.cron.AddFunc(reindexSpec, m.Reindex); err != nil {
		return fmt.Errorf("schedule %s: %w", JobReindex, err)
	}
	return nil
}

func (m *Manager) run(name string, fn func(ctx context.Context) (logrus.Fields, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	start := time.Now()
	fields, err := fn(ctx)
	entry := m.logger.WithField("job", name).WithField("took", time.Since(start).String()).WithFields(fields)
	if err != nil {
		entry.WithError(err).Error("cron job failed")
		return
	}
	entry.Debug("cron job completed")
}

func (m *Manager) WarmPopular() {
	m.run(JobWarmPopular, func(ctx context.Context) (logrus.Fields, error) {
		courses, err := m.courses.WarmPopular(ctx)
		return logrus.Fields{"courses": len(courses)}, err
	})
}

func (m *Manager) Reindex() {
	m.run(JobReindex, func(ctx context.Context) (logrus.Fields, error) {
		n, err := m.courses.Reindex(ctx)
		return logrus.Fields{"indexed": n}, err
	})
}
