package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/storelens/sales-analytics-api/internal/config"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/internal/usecases/analyzing"
)

// AnalyticsWarmupConfig representa a configuração do agendador de pré-aquecimento
type AnalyticsWarmupConfig struct {
	CronSchedule string
	LookbackDays int
	SyncEnabled  bool
}

// AnalyticsWarmupService gerencia o agendamento do pré-aquecimento do cache de análises.
// Cada execução recalcula as análises padrão da janela recente para que as
// primeiras requisições do dia encontrem o cache quente.
type AnalyticsWarmupService struct {
	scheduler         *gocron.Scheduler
	config            AnalyticsWarmupConfig
	analyzer          analyzing.Analyzer
	syncRunning       bool
	syncMutex         sync.Mutex
	lastRunStartedAt  time.Time
	lastRunFinishedAt time.Time
}

// NewAnalyticsWarmupService cria uma nova instância do serviço de pré-aquecimento
func NewAnalyticsWarmupService(
	analyzer analyzing.Analyzer,
	appConfig *config.Config,
) *AnalyticsWarmupService {
	warmupConfig := AnalyticsWarmupConfig{
		CronSchedule: appConfig.WarmupSync.CronSchedule,
		LookbackDays: appConfig.WarmupSync.LookbackDays,
		SyncEnabled:  appConfig.WarmupSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": warmupConfig.CronSchedule,
		"lookback_days": warmupConfig.LookbackDays,
		"sync_enabled":  warmupConfig.SyncEnabled,
	}).Info("Configuração do agendador de pré-aquecimento de análises carregada")

	return &AnalyticsWarmupService{
		scheduler:   scheduler,
		config:      warmupConfig,
		analyzer:    analyzer,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *AnalyticsWarmupService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Pré-aquecimento de análises desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de pré-aquecimento de análises")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmupAllAnalyses(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar pré-aquecimento de análises: %w", err)
	}

	s.scheduler.StartAsync()

	// Parar o agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de pré-aquecimento de análises")
		s.scheduler.Stop()
	}()

	return nil
}

// warmupAllAnalyses recalcula as análises padrão da janela recente
func (s *AnalyticsWarmupService) warmupAllAnalyses(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Pré-aquecimento de análises já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastRunStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -s.config.LookbackDays)
	filters := &domain.AnalysisFilters{
		StartDate: &startDate,
		EndDate:   &endDate,
	}

	logrus.WithFields(logrus.Fields{
		"start_date": startDate.Format(time.DateOnly),
		"end_date":   endDate.Format(time.DateOnly),
		"days":       s.config.LookbackDays,
	}).Info("Iniciando pré-aquecimento de análises")

	intervals := []domain.Interval{domain.IntervalDay, domain.IntervalWeek, domain.IntervalMonth}
	for _, interval := range intervals {
		if _, err := s.analyzer.TimeSeries(ctx, filters, interval); err != nil {
			logrus.WithError(err).WithField("interval", interval).Error("Erro ao pré-aquecer série temporal")
		}
	}

	if _, err := s.analyzer.ProductAnalysis(ctx, filters); err != nil {
		logrus.WithError(err).Error("Erro ao pré-aquecer análise de produtos")
	}

	if _, err := s.analyzer.CustomerAnalysis(ctx, filters); err != nil {
		logrus.WithError(err).Error("Erro ao pré-aquecer análise de clientes")
	}

	if _, err := s.analyzer.SalesOverview(ctx, filters); err != nil {
		logrus.WithError(err).Error("Erro ao pré-aquecer visão geral de vendas")
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"days":     s.config.LookbackDays,
	}).Info("Pré-aquecimento de análises concluído")

	s.lastRunFinishedAt = time.Now()
}

// RunManually dispara o pré-aquecimento fora do agendamento
func (s *AnalyticsWarmupService) RunManually(ctx context.Context) {
	logrus.Info("Execução manual do pré-aquecimento de análises solicitada")
	go s.warmupAllAnalyses(ctx)
}
