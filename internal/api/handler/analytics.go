package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/internal/usecases/aggregating"
	"github.com/storelens/sales-analytics-api/internal/usecases/analyzing"
	"github.com/storelens/sales-analytics-api/pkg/apiErrors"
	"github.com/storelens/sales-analytics-api/pkg/log"
)

// parseAnalysisFilters lê os parâmetros start_date e end_date da query string.
// Parâmetros ausentes resultam em filtros abertos (nil).
func parseAnalysisFilters(r *http.Request) (*domain.AnalysisFilters, error) {
	filters := &domain.AnalysisFilters{}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, err
		}
		filters.StartDate = &parsed
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, err
		}
		filters.EndDate = &parsed
	}

	return filters, nil
}

// writeAnalysisError traduz os erros das camadas de análise para a resposta HTTP
func writeAnalysisError(w http.ResponseWriter, err error) {
	var aggErr *aggregating.AggregationError
	if errors.As(err, &aggErr) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, aggErr.Message, nil)
		return
	}

	var ledgerErr *repository.LedgerError
	if errors.As(err, &ledgerErr) {
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao consultar o ledger de vendas", nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
}

func GetTimeSeries(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseAnalysisFilters(r)
		if err != nil {
			logger.WithError(err).Warn("analytics: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas devem estar no formato YYYY-MM-DD", nil)
			return
		}

		interval := domain.Interval(r.URL.Query().Get("interval"))
		if interval == "" {
			interval = domain.IntervalDay
		}
		if !interval.IsValid() {
			logger.WithField("interval", interval).Warn("analytics: invalid interval parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidInterval, "Intervalo deve ser day, week, month, quarter ou year", nil)
			return
		}

		result, err := service.TimeSeries(r.Context(), filters, interval)
		if err != nil {
			logger.WithError(err).Error("analytics: failed to compute time series")
			writeAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("analytics: failed to encode time series response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func GetProductAnalysis(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseAnalysisFilters(r)
		if err != nil {
			logger.WithError(err).Warn("analytics: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas devem estar no formato YYYY-MM-DD", nil)
			return
		}

		result, err := service.ProductAnalysis(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("analytics: failed to compute product analysis")
			writeAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("analytics: failed to encode product analysis response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func GetCustomerAnalysis(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseAnalysisFilters(r)
		if err != nil {
			logger.WithError(err).Warn("analytics: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas devem estar no formato YYYY-MM-DD", nil)
			return
		}

		result, err := service.CustomerAnalysis(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("analytics: failed to compute customer analysis")
			writeAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("analytics: failed to encode customer analysis response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func GetSalesOverview(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		filters, err := parseAnalysisFilters(r)
		if err != nil {
			logger.WithError(err).Warn("analytics: invalid date parameter")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas devem estar no formato YYYY-MM-DD", nil)
			return
		}

		result, err := service.SalesOverview(r.Context(), filters)
		if err != nil {
			logger.WithError(err).Error("analytics: failed to compute sales overview")
			writeAnalysisError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("analytics: failed to encode sales overview response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
