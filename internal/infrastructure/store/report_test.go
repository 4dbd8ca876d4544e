package store

import (
	"context"
	"os"
	"testing"
	"time"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

// 需要實際的 Redis 才能跑，沒設 REDIS_ADDR 就跳過
func newTestStore(t *testing.T) *ReportStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	s, err := NewReportStore(&config.Config{
		Redis: config.RedisConfig{Addr: addr},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReportStore_SaveAndLoadReport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := "test-user-" + time.Now().Format("150405.000")

	report := &common.AnalysisReport{
		Overall: common.OverallAssessment{
			SafetyRating:     common.SafetySafe,
			BarrierImpact:    common.BarrierPositive,
			AllergyRisk:      common.AllergyLow,
			SuitabilityScore: 5,
		},
		Ingredients: []common.IngredientAssessment{
			{Name: "Water", Safety: common.SafetySafe},
		},
	}

	require.NoError(t, s.SaveReport(ctx, user, report))

	got, err := s.LoadLastReport(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Overall.SuitabilityScore)
	assert.Equal(t, "Water", got.Ingredients[0].Name)
}

func TestReportStore_LoadMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadLastReport(context.Background(), "no-such-user")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportStore_RoutineHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := "routine-user-" + time.Now().Format("150405.000")

	first := &common.RoutineDocument{TimeOfDay: common.TimeAM, Steps: []common.RoutineStep{{StepName: "Cleanser"}}, CreatedAt: time.Now()}
	second := &common.RoutineDocument{TimeOfDay: common.TimePM, Steps: []common.RoutineStep{{StepName: "Moisturizer"}}, CreatedAt: time.Now()}

	require.NoError(t, s.SaveRoutine(ctx, user, first))
	require.NoError(t, s.SaveRoutine(ctx, user, second))

	got, err := s.ListRoutines(ctx, user)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, common.TimePM, got[0].TimeOfDay)
	assert.Equal(t, common.TimeAM, got[1].TimeOfDay)
}
