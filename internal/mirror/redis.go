package mirror

import (
	"context"
	"log/slog"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/status"
	"tradegate/internal/platform/metrics"
	"tradegate/internal/platform/redis"
)

// Redis mirrors the latest status per (shipment, kind) into a redis hash so
// other dashboards can read the portfolio without touching this service.
//
//	HSET compliance:status:<shipment-id> <doc-key> <status>
type Redis struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRedis(client *redis.Client, logger *slog.Logger, m *metrics.Metrics) *Redis {
	return &Redis{client: client, logger: logger, metrics: m}
}

func (r *Redis) Push(ctx context.Context, shipmentID id.ShipmentID, docKey id.DocKey, st status.Document, _ string) {
	key := "compliance:status:" + shipmentID.String()
	if err := r.client.HSet(ctx, key, string(docKey), string(st)).Err(); err != nil {
		r.metrics.MirrorPushFailures.Inc()
		r.logger.Warn("mirror: redis push failed",
			"shipment_id", shipmentID.String(),
			"doc_key", string(docKey),
			"err", err,
		)
	}
}
