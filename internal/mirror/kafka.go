package mirror

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/status"
	"tradegate/internal/platform/metrics"
)

// statusRecord is the wire shape published to the status topic.
type statusRecord struct {
	ShipmentID string `json:"shipment_id"`
	DocKey     string `json:"doc_key"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	At         string `json:"at"`
}

// Kafka publishes status changes to a Kafka topic via an async produce.
// Delivery failures only increment a counter; the local mutation already
// committed and must not be failed or retried from here.
type Kafka struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewKafka connects a producer for the status topic.
func NewKafka(brokers []string, topic string, logger *slog.Logger, m *metrics.Metrics) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, err
	}
	return &Kafka{client: client, topic: topic, logger: logger, metrics: m}, nil
}

func (k *Kafka) Push(ctx context.Context, shipmentID id.ShipmentID, docKey id.DocKey, st status.Document, note string) {
	payload, err := json.Marshal(statusRecord{
		ShipmentID: shipmentID.String(),
		DocKey:     string(docKey),
		Status:     string(st),
		Note:       note,
		At:         time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		k.logger.ErrorContext(ctx, "mirror: marshal status record", "err", err)
		return
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(shipmentID.String() + "/" + string(docKey)),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			k.metrics.MirrorPushFailures.Inc()
			k.logger.Warn("mirror: kafka push failed",
				"shipment_id", shipmentID.String(),
				"doc_key", string(docKey),
				"err", err,
			)
		}
	})
}

// Close flushes outstanding produces and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	if err := k.client.Flush(ctx); err != nil {
		return err
	}
	k.client.Close()
	return nil
}
