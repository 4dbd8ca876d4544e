package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const reportTTL = 7 * 24 * time.Hour

// 使用者識別只是個純字串欄位，未帶時歸到 default
func normalizeUser(user string) string {
	if user == "" {
		return "default"
	}
	return user
}

func lastReportKey(user string) string {
	return fmt.Sprintf("skincare:%s:last_report", normalizeUser(user))
}

func routineListKey(user string) string {
	return fmt.Sprintf("skincare:%s:routines", normalizeUser(user))
}

// ReportStore 以 Redis 保存最近一次分析報告與歷史保養流程
// 報告供後續對話與保養流程生成使用，不存在時回傳 nil 而非錯誤
type ReportStore struct {
	client *redis.Client
}

// NewReportStore 建立 Redis 連線並驗證可用性
func NewReportStore(cfg *config.Config) (*ReportStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	common.LogInfo("Redis 連線成功", zap.String("addr", cfg.Redis.Addr))
	return &ReportStore{client: client}, nil
}

// SaveReport 保存最近一次分析報告
func (s *ReportStore) SaveReport(ctx context.Context, user string, report *common.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := s.client.Set(ctx, lastReportKey(user), data, reportTTL).Err(); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadLastReport 讀取最近一次分析報告，不存在時回傳 (nil, nil)
func (s *ReportStore) LoadLastReport(ctx context.Context, user string) (*common.AnalysisReport, error) {
	data, err := s.client.Get(ctx, lastReportKey(user)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report common.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// SaveRoutine 將保養流程加入歷史列表（最新在前）
func (s *ReportStore) SaveRoutine(ctx context.Context, user string, doc *common.RoutineDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal routine: %w", err)
	}
	if err := s.client.LPush(ctx, routineListKey(user), data).Err(); err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}
	// 只保留最近 50 筆
	if err := s.client.LTrim(ctx, routineListKey(user), 0, 49).Err(); err != nil {
		return fmt.Errorf("failed to trim routine list: %w", err)
	}
	return nil
}

// ListRoutines 讀取歷史保養流程，最新在前
func (s *ReportStore) ListRoutines(ctx context.Context, user string) ([]common.RoutineDocument, error) {
	items, err := s.client.LRange(ctx, routineListKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}

	routines := make([]common.RoutineDocument, 0, len(items))
	for _, item := range items {
		var doc common.RoutineDocument
		if err := json.Unmarshal([]byte(item), &doc); err != nil {
			common.LogWarn("略過無法解析的保養流程紀錄", zap.Error(err))
			continue
		}
		routines = append(routines, doc)
	}
	return routines, nil
}

// Close 關閉 Redis 連線
func (s *ReportStore) Close() error {
	return s.client.Close()
}
