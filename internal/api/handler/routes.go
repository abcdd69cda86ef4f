package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/storelens/sales-analytics-api/internal/api/handler/router"
	"github.com/storelens/sales-analytics-api/internal/usecases/analyzing"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sales(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales/ingest",
			Method:  http.MethodPost,
			Handler: IngestSales(service),
		},
	}
}

func Analytics(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/analytics/time-series",
			Method:  http.MethodGet,
			Handler: GetTimeSeries(service),
		},
		{
			Path:    "/v1/analytics/products",
			Method:  http.MethodGet,
			Handler: GetProductAnalysis(service),
		},
		{
			Path:    "/v1/analytics/customers",
			Method:  http.MethodGet,
			Handler: GetCustomerAnalysis(service),
		},
		{
			Path:    "/v1/analytics/overview",
			Method:  http.MethodGet,
			Handler: GetSalesOverview(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
	}
}
