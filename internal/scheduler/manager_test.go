package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
)

type fakeJobs struct {
	warmed     int
	reindexed  int
	reindexErr error
}

func (f *fakeJobs) WarmPopular(context.Context) ([]entity.Course, error) {
	f.warmed++
	return []entity.Course{{ID: "a"}, {ID: "b"}}, nil
}

func (f *fakeJobs) Reindex(context.Context) (int, error) {
	f.reindexed++
	return 7, f.reindexErr
}

func TestRegisterJobs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(&fakeJobs{}, 5*time.Minute, logger)

	require.NoError(t, m.registerJobs())

	assert.Len(t, m.cron.Entries(), 2)
	assert.Equal(t, 150*time.Second, m.warmEvery)
}

func TestWarmIntervalHasFloor(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(&fakeJobs{}, time.Second, logger)
	assert.Equal(t, time.Second, m.warmEvery)
}

func TestJobsLogOutcome(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	jobs := &fakeJobs{}
	m := NewManager(jobs, time.Minute, logger)

	m.WarmPopular()
	require.Equal(t, 1, jobs.warmed)
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, JobWarmPopular, last.Data["job"])
	assert.Equal(t, 2, last.Data["courses"])

	jobs.reindexErr = errors.New("es down")
	m.Reindex()
	last = hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Equal(t, 7, last.Data["indexed"])
}

func TestStartStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewManager(&fakeJobs{}, time.Minute, logger)
	require.NoError(t, m.Start())
	m.Stop()
}
