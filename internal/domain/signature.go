package domain

import (
	"fmt"
	"time"
)

// AnalysisKind identifica o tipo de análise para fins de cache
type AnalysisKind string

const (
	KindTimeSeries       AnalysisKind = "time_series"
	KindProductAnalysis  AnalysisKind = "product_analysis"
	KindCustomerAnalysis AnalysisKind = "customer_analysis"
	KindSalesOverview    AnalysisKind = "sales_overview"
	KindIngestion        AnalysisKind = "ingestion"
)

// QuerySignature identifica deterministicamente uma análise solicitada.
// A chave gerada é estável entre reinícios do serviço.
type QuerySignature struct {
	Kind      AnalysisKind `json:"kind"`
	StartDate *time.Time   `json:"start_date,omitempty"`
	EndDate   *time.Time   `json:"end_date,omitempty"`
	Interval  Interval     `json:"interval,omitempty"`
	BatchID   string       `json:"batch_id,omitempty"`
}

// Key monta a chave de cache determinística no formato
// kind:inicio-ISO8601:fim-ISO8601:intervalo
func (s QuerySignature) Key() string {
	start := ""
	if s.StartDate != nil {
		start = s.StartDate.UTC().Format(time.RFC3339)
	}

	end := ""
	if s.EndDate != nil {
		end = s.EndDate.UTC().Format(time.RFC3339)
	}

	if s.Kind == KindIngestion {
		return fmt.Sprintf("%s:%s", s.Kind, s.BatchID)
	}

	return fmt.Sprintf("%s:%s:%s:%s", s.Kind, start, end, s.Interval)
}
