package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
	"github.com/theruads/fleet-backend/internal/service"
)

type mockImpressionRepo struct {
	rows       []*model.Impression
	failCreate bool
	failStats  bool
}

func (m *mockImpressionRepo) Create(imp *model.Impression) error {
	if m.failCreate {
		return fmt.Errorf("insert failed")
	}
	m.rows = append(m.rows, imp)
	return nil
}

func (m *mockImpressionRepo) GetByID(id string) (*model.Impression, error) {
	for _, imp := range m.rows {
		if imp.ID == id {
			return imp, nil
		}
	}
	return nil, nil
}

func (m *mockImpressionRepo) List(f repository.ImpressionFilter) ([]*model.Impression, error) {
	return m.rows, nil
}

func (m *mockImpressionRepo) CountAll() (int, error) { return len(m.rows), nil }

func (m *mockImpressionRepo) CountSince(t time.Time) (int, error) {
	n := 0
	for _, imp := range m.rows {
		if !imp.PlayedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (m *mockImpressionRepo) StatsByCampaign(campaignID string) (int, int, error) {
	if m.failStats {
		return 0, 0, fmt.Errorf("stats query failed")
	}
	devices := map[string]bool{}
	for _, imp := range m.rows {
		devices[imp.DeviceID] = true
	}
	return len(m.rows), len(devices), nil
}

func (m *mockImpressionRepo) UpsertDaily(adID string, day time.Time, delta int) error { return nil }

// failingQueue rejects every publish.
type failingQueue struct {
	attempts int
}

func (q *failingQueue) Publish(topic string, payload any) error {
	q.attempts++
	return fmt.Errorf("broker unavailable")
}

func (q *failingQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func TestRecordStoresRowDurably(t *testing.T) {
	repo := &mockImpressionRepo{}
	svc := &service.ImpressionService{ImpressionRepo: repo}

	lat, lng := 13.0827, 80.2707
	playedAt := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	imp, err := svc.Record("dev-1", "ad-1", playedAt, &lat, &lng)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if imp.ID == "" {
		t.Error("impression got no id")
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(repo.rows))
	}
	stored := repo.rows[0]
	if stored.DeviceID != "dev-1" || stored.AdID != "ad-1" {
		t.Errorf("wrong row stored: %+v", stored)
	}
	if !stored.PlayedAt.Equal(playedAt) {
		t.Errorf("played_at mangled: %v", stored.PlayedAt)
	}
	if stored.Latitude == nil || *stored.Latitude != lat {
		t.Error("latitude not stored")
	}
}

func TestRecordSurfacesStorageFailure(t *testing.T) {
	repo := &mockImpressionRepo{failCreate: true}
	svc := &service.ImpressionService{ImpressionRepo: repo}

	if _, err := svc.Record("dev-1", "ad-1", time.Now(), nil, nil); err == nil {
		t.Fatal("storage failure must surface so the device retries")
	}
}

func TestRecordSucceedsWhenPublishFails(t *testing.T) {
	repo := &mockImpressionRepo{}
	q := &failingQueue{}
	svc := &service.ImpressionService{ImpressionRepo: repo, Queue: q}

	imp, err := svc.Record("dev-1", "ad-1", time.Now(), nil, nil)
	if err != nil {
		t.Fatalf("publish failure must not fail the recording: %v", err)
	}
	if imp == nil || len(repo.rows) != 1 {
		t.Fatal("row was not stored")
	}
	if q.attempts != 1 {
		t.Errorf("expected one publish attempt, got %d", q.attempts)
	}
}
