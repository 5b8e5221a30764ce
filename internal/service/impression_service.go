// internal/service/impression_service.go
package service

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/queue"
	"github.com/theruads/fleet-backend/internal/repository"
)

type ImpressionService struct {
	ImpressionRepo repository.ImpressionRepositoryInterface
	Queue          queue.Queue
}

// Record durably appends exactly one impression row. Any storage failure is
// returned to the caller so the device can retry; this is the one path in
// the system that must never degrade silently. The recorder does not check
// that the ad is currently eligible for the device.
func (s *ImpressionService) Record(deviceID, adID string, playedAt time.Time, latitude, longitude *float64) (*model.Impression, error) {
	imp := &model.Impression{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		AdID:      adID,
		PlayedAt:  playedAt.UTC(),
		Latitude:  latitude,
		Longitude: longitude,
	}

	if err := s.ImpressionRepo.Create(imp); err != nil {
		return nil, err
	}

	// Post-commit event for the aggregate worker. Best effort only; the
	// row above is the source of truth.
	if s.Queue != nil {
		event := queue.ImpressionEvent{
			ImpressionID: imp.ID,
			DeviceID:     imp.DeviceID,
			AdID:         imp.AdID,
			PlayedAt:     imp.PlayedAt,
		}
		if err := s.Queue.Publish(queue.TopicImpressions, event); err != nil {
			log.Println("⚠️ failed to publish impression event:", err)
		}
	}

	log.Println("✅ Impression recorded:", imp.ID, "for ad", adID)
	return imp, nil
}
