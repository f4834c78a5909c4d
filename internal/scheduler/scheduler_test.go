package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psrental-backend/internal/config"
	"psrental-backend/internal/jobs"
	"psrental-backend/internal/persistence"
	"psrental-backend/internal/repository/memstore"
	"psrental-backend/internal/service"
)

func newRunner(cfg *config.Config) *jobs.JobRunner {
	store := service.NewRentalStore(nil, persistence.NewAdapter(memstore.New()))
	return jobs.NewJobRunner(store, nil, cfg)
}

func TestNewScheduler(t *testing.T) {
	s, err := NewScheduler(newRunner(config.Default()), time.FixedZone("WIB", 7*3600))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Entries())

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduler.LowStockAlerts = "every hour"

	_, err := NewScheduler(newRunner(cfg), nil)
	assert.ErrorContains(t, err, "LowStockAlerts")
}
