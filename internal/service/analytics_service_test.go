package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/service"
)

type mockClientRepo struct {
	clients map[string]*model.Client
	fail    bool
}

func (m *mockClientRepo) Create(c *model.Client) error {
	if m.clients == nil {
		m.clients = map[string]*model.Client{}
	}
	m.clients[c.ID] = c
	return nil
}

func (m *mockClientRepo) GetByID(id string) (*model.Client, error) {
	if m.fail {
		return nil, fmt.Errorf("clients unavailable")
	}
	return m.clients[id], nil
}

func (m *mockClientRepo) ListAll() ([]*model.Client, error) {
	out := []*model.Client{}
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockClientRepo) Update(c *model.Client) error { return nil }

func newAnalyticsService(devices *mockDeviceRepo, campaigns *mockCampaignRepo, clients *mockClientRepo, impressions *mockImpressionRepo) *service.AnalyticsService {
	return &service.AnalyticsService{
		DeviceRepo:       devices,
		CampaignRepo:     campaigns,
		ClientRepo:       clients,
		ImpressionRepo:   impressions,
		OfflineThreshold: 10 * time.Minute,
	}
}

func TestOverviewCounts(t *testing.T) {
	devices := newMockDeviceRepo()
	recent := time.Now().UTC().Add(-time.Minute)
	stale := time.Now().UTC().Add(-time.Hour)
	devices.devices["d1"] = &model.Device{ID: "d1", LastSeen: &recent}
	devices.devices["d2"] = &model.Device{ID: "d2", LastSeen: &stale}
	devices.devices["d3"] = &model.Device{ID: "d3"}

	today := time.Now().UTC()
	campaigns := &mockCampaignRepo{campaigns: []*model.Campaign{
		{ID: "live", StartDate: today.AddDate(0, 0, -1), EndDate: today.AddDate(0, 0, 1)},
		{ID: "done", StartDate: today.AddDate(0, 0, -30), EndDate: today.AddDate(0, 0, -20)},
	}}

	impressions := &mockImpressionRepo{rows: []*model.Impression{
		{ID: "i1", DeviceID: "d1", PlayedAt: today},
		{ID: "i2", DeviceID: "d1", PlayedAt: today.AddDate(0, 0, -3)},
	}}

	svc := newAnalyticsService(devices, campaigns, &mockClientRepo{}, impressions)
	ov, err := svc.Overview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}

	if ov.TotalDevices != 3 || ov.OnlineDevices != 1 || ov.OfflineDevices != 2 {
		t.Errorf("device counts wrong: %+v", ov)
	}
	if ov.TotalCampaigns != 2 || ov.ActiveCampaigns != 1 {
		t.Errorf("campaign counts wrong: %+v", ov)
	}
	if ov.TotalImpressions != 2 || ov.TodayImpressions != 1 {
		t.Errorf("impression counts wrong: %+v", ov)
	}
}

func TestCampaignAnalyticsResolvesClientName(t *testing.T) {
	campaigns := &mockCampaignRepo{campaigns: []*model.Campaign{
		{ID: "c1", ClientID: "cl1", Name: "Summer", Status: model.CampaignActive,
			StartDate: dateMust("2024-01-01"), EndDate: dateMust("2024-01-31")},
	}}
	clients := &mockClientRepo{clients: map[string]*model.Client{
		"cl1": {ID: "cl1", Name: "Acme Beverages"},
	}}
	impressions := &mockImpressionRepo{rows: []*model.Impression{
		{ID: "i1", DeviceID: "d1"},
		{ID: "i2", DeviceID: "d1"},
		{ID: "i3", DeviceID: "d2"},
	}}

	svc := newAnalyticsService(newMockDeviceRepo(), campaigns, clients, impressions)
	rows, err := svc.Campaigns("")
	if err != nil {
		t.Fatalf("campaigns failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.ClientName != "Acme Beverages" {
		t.Errorf("client name not resolved: %s", row.ClientName)
	}
	if row.TotalImpressions != 3 || row.UniqueDevices != 2 {
		t.Errorf("stats wrong: %+v", row)
	}
	if row.StartDate != "2024-01-01" || row.EndDate != "2024-01-31" {
		t.Errorf("window not formatted as dates: %s..%s", row.StartDate, row.EndDate)
	}
}

func TestCampaignAnalyticsDegradesOnSubQueryFailures(t *testing.T) {
	campaigns := &mockCampaignRepo{campaigns: []*model.Campaign{
		{ID: "c1", ClientID: "cl1", Name: "Summer",
			StartDate: dateMust("2024-01-01"), EndDate: dateMust("2024-01-31")},
	}}
	clients := &mockClientRepo{fail: true}
	impressions := &mockImpressionRepo{failStats: true}

	svc := newAnalyticsService(newMockDeviceRepo(), campaigns, clients, impressions)
	rows, err := svc.Campaigns("")
	if err != nil {
		t.Fatalf("reporting must degrade, not fail: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.ClientName != "Unknown" {
		t.Errorf("expected Unknown client fallback, got %s", row.ClientName)
	}
	if row.TotalImpressions != 0 || row.UniqueDevices != 0 {
		t.Errorf("stats should degrade to zeros: %+v", row)
	}
}
