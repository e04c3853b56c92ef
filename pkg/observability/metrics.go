package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes application metrics to CloudWatch
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics creates a metrics publisher
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
	}
}

// RecordTurnLatency records the duration of one assistant exchange
func (m *Metrics) RecordTurnLatency(ctx context.Context, d time.Duration) {
	m.put(ctx, "ChatTurnLatency", float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

// RecordThinkingShown increments the count of turns slow enough to show the indicator
func (m *Metrics) RecordThinkingShown(ctx context.Context) {
	m.put(ctx, "ThinkingIndicatorShown", 1, types.StandardUnitCount)
}

// RecordSaveOutcome records a save attempt result
func (m *Metrics) RecordSaveOutcome(ctx context.Context, success bool) {
	name := "PostSaveFailure"
	if success {
		name = "PostSaveSuccess"
	}
	m.put(ctx, name, 1, types.StandardUnitCount)
}

// put sends a single datum; metric failures are never allowed to
// affect the calling flow, so errors are dropped here.
func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
}
