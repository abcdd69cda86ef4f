package aggregating

import (
	"time"

	"github.com/storelens/sales-analytics-api/internal/domain"
)

// truncateToDay normaliza um instante para a meia-noite do dia em UTC
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// bucketStart retorna a data de início do bucket que contém a data,
// segundo o intervalo de reamostragem. Semanas começam na segunda-feira
// e trimestres em janeiro, abril, julho e outubro.
func bucketStart(t time.Time, interval domain.Interval) time.Time {
	day := truncateToDay(t)

	switch interval {
	case domain.IntervalDay:
		return day
	case domain.IntervalWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.IntervalMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case domain.IntervalQuarter:
		quarterMonth := time.Month((int(day.Month())-1)/3*3 + 1)
		return time.Date(day.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	case domain.IntervalYear:
		return time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	return day
}

// nextBucket avança para o início do bucket seguinte
func nextBucket(t time.Time, interval domain.Interval) time.Time {
	switch interval {
	case domain.IntervalDay:
		return t.AddDate(0, 0, 1)
	case domain.IntervalWeek:
		return t.AddDate(0, 0, 7)
	case domain.IntervalMonth:
		return t.AddDate(0, 1, 0)
	case domain.IntervalQuarter:
		return t.AddDate(0, 3, 0)
	case domain.IntervalYear:
		return t.AddDate(1, 0, 0)
	}

	return t.AddDate(0, 0, 1)
}
