// Package store provides seeding helpers for the compliance document store.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "tradegate/pkg/domain"

	"tradegate/internal/compliance/models"
	"tradegate/internal/compliance/service"
	"tradegate/internal/compliance/status"
	"tradegate/internal/shipment"
)

// SeedBootstrapPortfolio creates two demo shipments with their required
// documents so a fresh process has something to show. Production deployments
// ingest shipments from the shipment subsystem instead.
func SeedBootstrapPortfolio(ctx context.Context, reg *shipment.InMemory, svc *service.DocumentService) ([]*shipment.Shipment, error) {
	ships := []*shipment.Shipment{
		{
			ID:        id.ShipmentID(uuid.New()),
			Reference: "EXP-2026-0041",
			Buyer:     "Hanwa Trading KK",
			Route:     "Valparaíso → Yokohama",
			Incoterm:  "CIF",
			Mode:      "sea",
		},
		{
			ID:        id.ShipmentID(uuid.New()),
			Reference: "EXP-2026-0057",
			Buyer:     "Nordfrucht GmbH",
			Route:     "San Antonio → Hamburg",
			Incoterm:  "FOB",
			Mode:      "sea",
		},
	}

	kinds := []struct {
		key      id.DocKey
		status   status.Document
		behavior models.PortalBehavior
	}{
		{id.DocKeyPhytosanitary, status.DocDraft, models.PortalAutoSign},
		{id.DocKeyOrigin, status.DocRequired, models.PortalAutoSign},
		{id.DocKeyInsurance, status.DocRequired, models.PortalManual},
	}

	now := time.Now()
	for _, sh := range ships {
		reg.Put(sh)
		for _, k := range kinds {
			doc := &models.Document{
				ID:             id.DocumentID(uuid.New()),
				DocKey:         k.key,
				ShipmentID:     sh.ID,
				ShipmentRef:    sh.Reference,
				Status:         k.status,
				PortalBehavior: k.behavior,
				Form:           map[string]any{},
				LastUpdated:    now,
			}
			if err := svc.CreateDocument(ctx, doc); err != nil {
				return nil, err
			}
		}
	}
	return ships, nil
}
