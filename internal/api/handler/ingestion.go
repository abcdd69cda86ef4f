package handler

import (
	"errors"
	"net/http"

	"github.com/storelens/sales-analytics-api/infrastructure/repository"
	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/storelens/sales-analytics-api/internal/usecases/analyzing"
	"github.com/storelens/sales-analytics-api/internal/usecases/validating"
	"github.com/storelens/sales-analytics-api/pkg/apiErrors"
	"github.com/storelens/sales-analytics-api/pkg/log"
)

// IngestRequest é o corpo da requisição de ingestão de um lote de vendas
type IngestRequest struct {
	BatchID string             `json:"batch_id,omitempty"`
	Records []domain.RawRecord `json:"records"`
}

func IngestSales(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var request IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			logger.WithError(err).Warn("ingestion: invalid request body")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		if len(request.Records) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "O lote deve conter ao menos um registro", nil)
			return
		}

		logger.WithFields(log.Fields{
			"batch_id": request.BatchID,
			"records":  len(request.Records),
		}).Info("ingestion: processing sales batch")

		result, err := service.IngestSales(r.Context(), request.BatchID, request.Records)
		if err != nil {
			var schemaErr *validating.SchemaError
			if errors.As(err, &schemaErr) {
				logger.WithField("missing_columns", schemaErr.MissingColumns).Warn("ingestion: batch schema rejected")
				apiErrors.WriteError(w, apiErrors.ErrInvalidSchema, "Lote sem colunas obrigatórias", map[string]any{
					"missing_columns": schemaErr.MissingColumns,
				})
				return
			}

			var ledgerErr *repository.LedgerError
			if errors.As(err, &ledgerErr) {
				logger.WithError(err).Error("ingestion: ledger write failed")
				apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao gravar o lote no ledger de vendas", nil)
				return
			}

			logger.WithError(err).Error("ingestion: failed to process batch")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"batch_id":   result.BatchID,
			"received":   result.Received,
			"inserted":   result.Inserted,
			"rejected":   len(result.Rejected),
			"duplicates": result.DuplicateCount,
		}).Info("ingestion: sales batch processed")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("ingestion: failed to encode response")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
