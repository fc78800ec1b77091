package metrics

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog"
)

// putMetricDataAPI is the subset of the CloudWatch client the collector uses.
type putMetricDataAPI interface {
	PutMetricData(
		context.Context,
		*cloudwatch.PutMetricDataInput,
		...func(*cloudwatch.Options),
	) (*cloudwatch.PutMetricDataOutput, error)
}

type cloudWatchCollector struct {
	cw         putMetricDataAPI
	namespace  string
	dimensions []types.Dimension
	timeout    time.Duration
	logger     zerolog.Logger
	nowFn      func() time.Time
}

// NewCloudWatchCollector returns a Collector that publishes each observation
// to CloudWatch under the given namespace.
func NewCloudWatchCollector(
	cfg aws.Config,
	namespace string,
	dimensions map[string]string,
	logger zerolog.Logger,
) Collector {
	dims := make([]types.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, types.Dimension{Name: aws.String(k), Value: aws.String(v)})
	}
	return &cloudWatchCollector{
		cw:         cloudwatch.NewFromConfig(cfg),
		namespace:  namespace,
		dimensions: dims,
		timeout:    5 * time.Second,
		logger:     logger,
		nowFn:      time.Now,
	}
}

func (c *cloudWatchCollector) Rejected() {
	c.put("Rejected", count(c.nowFn(), "Rejected", c.dimensions))
}

func (c *cloudWatchCollector) Handled(command string, duration time.Duration) {
	now := c.nowFn()
	dims := append(
		[]types.Dimension{{Name: aws.String("Command"), Value: aws.String(command)}},
		c.dimensions...,
	)
	c.put(
		"Handled",
		count(now, "Handled", dims),
		types.MetricDatum{
			MetricName: aws.String("HandleLatency"),
			Timestamp:  &now,
			Dimensions: dims,
			Unit:       types.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(duration.Milliseconds())),
		},
	)
}

func (c *cloudWatchCollector) DeliveryFailed() {
	c.put("DeliveryFailed", count(c.nowFn(), "DeliveryFailed", c.dimensions))
}

// put sends the data synchronously. Failures are only logged; metrics never
// fail a request.
func (c *cloudWatchCollector) put(name string, data ...types.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := c.cw.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	}); err != nil {
		c.logger.Error().Err(err).Str("metric", name).
			Msg("failed to send cloudwatch metric")
	}
}

func count(
	now time.Time,
	name string,
	dims []types.Dimension,
) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Timestamp:  &now,
		Dimensions: dims,
		Unit:       types.StandardUnitCount,
		Value:      aws.Float64(1),
	}
}
