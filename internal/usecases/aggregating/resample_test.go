package aggregating

import (
	"testing"
	"time"

	"github.com/storelens/sales-analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBucketStart(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		interval domain.Interval
		expected time.Time
	}{
		{
			name:     "Dia permanece no próprio dia",
			date:     day(2023, time.March, 15),
			interval: domain.IntervalDay,
			expected: day(2023, time.March, 15),
		},
		{
			name:     "Semana começa na segunda-feira",
			date:     day(2023, time.January, 8), // domingo
			interval: domain.IntervalWeek,
			expected: day(2023, time.January, 2),
		},
		{
			name:     "Segunda-feira é o próprio início da semana",
			date:     day(2023, time.January, 2),
			interval: domain.IntervalWeek,
			expected: day(2023, time.January, 2),
		},
		{
			name:     "Mês começa no dia primeiro",
			date:     day(2023, time.July, 20),
			interval: domain.IntervalMonth,
			expected: day(2023, time.July, 1),
		},
		{
			name:     "Trimestre começa em janeiro, abril, julho ou outubro",
			date:     day(2023, time.August, 20),
			interval: domain.IntervalQuarter,
			expected: day(2023, time.July, 1),
		},
		{
			name:     "Ano começa em primeiro de janeiro",
			date:     day(2023, time.November, 5),
			interval: domain.IntervalYear,
			expected: day(2023, time.January, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bucketStart(tt.date, tt.interval))
		})
	}
}

func TestNextBucket(t *testing.T) {
	start := day(2023, time.October, 1)

	assert.Equal(t, day(2023, time.October, 2), nextBucket(start, domain.IntervalDay))
	assert.Equal(t, day(2023, time.October, 8), nextBucket(start, domain.IntervalWeek))
	assert.Equal(t, day(2023, time.November, 1), nextBucket(start, domain.IntervalMonth))
	assert.Equal(t, day(2024, time.January, 1), nextBucket(start, domain.IntervalQuarter))
	assert.Equal(t, day(2024, time.October, 1), nextBucket(start, domain.IntervalYear))
}
