package service_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/service"
)

// mockDeviceRepo is an in-memory DeviceRepositoryInterface.
type mockDeviceRepo struct {
	devices             map[string]*model.Device // by id
	heartbeats          []*model.Heartbeat
	findByCodeCalls     int
	failInsertHeartbeat bool
	staleCutoff         time.Time
	staleCount          int64
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: map[string]*model.Device{}}
}

func (m *mockDeviceRepo) Create(d *model.Device) error {
	d.CreatedAt = time.Now()
	m.devices[d.ID] = d
	return nil
}

func (m *mockDeviceRepo) FindByCode(code string) (*model.Device, error) {
	m.findByCodeCalls++
	for _, d := range m.devices {
		if d.DeviceCode == code {
			return d, nil
		}
	}
	return nil, nil
}

func (m *mockDeviceRepo) GetByID(id string) (*model.Device, error) {
	return m.devices[id], nil
}

func (m *mockDeviceRepo) List(city, status string) ([]*model.Device, error) {
	out := []*model.Device{}
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out, nil
}

func (m *mockDeviceRepo) UpdateLastSeen(id string, seenAt time.Time, status string) error {
	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("device %s missing", id)
	}
	d.LastSeen = &seenAt
	d.Status = status
	return nil
}

func (m *mockDeviceRepo) UpdateAssignment(id string, city, driverID *string) error {
	d, ok := m.devices[id]
	if !ok {
		return fmt.Errorf("device %s missing", id)
	}
	if city != nil {
		d.City = city
	}
	if driverID != nil {
		d.DriverID = driverID
	}
	return nil
}

func (m *mockDeviceRepo) Delete(id string) error {
	delete(m.devices, id)
	return nil
}

func (m *mockDeviceRepo) MarkStaleOffline(before time.Time) (int64, error) {
	m.staleCutoff = before
	return m.staleCount, nil
}

func (m *mockDeviceRepo) InsertHeartbeat(h *model.Heartbeat) error {
	if m.failInsertHeartbeat {
		return fmt.Errorf("telemetry write failed")
	}
	m.heartbeats = append(m.heartbeats, h)
	return nil
}

func (m *mockDeviceRepo) Counts(onlineSince time.Time) (int, int, error) {
	total, online := 0, 0
	for _, d := range m.devices {
		total++
		if d.LastSeen != nil && d.LastSeen.After(onlineSince) {
			online++
		}
	}
	return total, online, nil
}

func newDeviceService(repo *mockDeviceRepo) *service.DeviceService {
	return &service.DeviceService{
		DeviceRepo:       repo,
		PollingInterval:  300,
		OfflineThreshold: 10 * time.Minute,
	}
}

func TestRegisterGeneratesDistinctCredentials(t *testing.T) {
	svc := newDeviceService(newMockDeviceRepo())

	first, err := svc.Register("Tab A8", "Android 13", "1.0.0", nil)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := svc.Register("Tab A8", "Android 13", "1.0.0", nil)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if first.DeviceCode == second.DeviceCode {
		t.Error("two registrations produced the same device code")
	}
	if first.SecretKey == second.SecretKey {
		t.Error("two registrations produced the same secret")
	}
}

func TestRegisterCredentialShape(t *testing.T) {
	svc := newDeviceService(newMockDeviceRepo())

	d, err := svc.Register("Tab A8", "Android 13", "1.0.0", nil)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !strings.HasPrefix(d.DeviceCode, "THR-") || len(d.DeviceCode) != 10 {
		t.Errorf("unexpected device code shape: %q", d.DeviceCode)
	}
	if len(d.SecretKey) != 64 {
		t.Errorf("expected 64-char secret, got %d chars", len(d.SecretKey))
	}
	if d.Status != model.StatusOffline {
		t.Errorf("fresh device should start OFFLINE, got %s", d.Status)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockDeviceRepo()
	svc := newDeviceService(repo)
	d, _ := svc.Register("Tab A8", "Android 13", "1.0.0", nil)

	got, err := svc.Authenticate(d.DeviceCode, d.SecretKey)
	if err != nil {
		t.Fatalf("expected successful auth, got %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("authenticated wrong device: %s", got.ID)
	}

	// wrong secret and unknown code must be indistinguishable
	if _, err := svc.Authenticate(d.DeviceCode, "wrong-secret"); !errors.Is(err, appErrors.ErrUnauthenticated) {
		t.Errorf("wrong secret: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Authenticate("THR-NOPE99", d.SecretKey); !errors.Is(err, appErrors.ErrUnauthenticated) {
		t.Errorf("unknown code: expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticateEmptyCredentialsSkipsStore(t *testing.T) {
	repo := newMockDeviceRepo()
	svc := newDeviceService(repo)

	if _, err := svc.Authenticate("", ""); !errors.Is(err, appErrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if repo.findByCodeCalls != 0 {
		t.Errorf("store was queried %d times for empty credentials", repo.findByCodeCalls)
	}
}

func TestHeartbeatUpdatesLastSeenAndStoresTelemetry(t *testing.T) {
	repo := newMockDeviceRepo()
	svc := newDeviceService(repo)
	d, _ := svc.Register("Tab A8", "Android 13", "1.0.0", nil)

	before := time.Now().UTC()
	serverTime, err := svc.Heartbeat(d.ID, service.HeartbeatInput{Battery: 80, IsCharging: true, StorageFreeGB: 12.5})
	if err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	if serverTime.Before(before) {
		t.Error("server time should not precede the request")
	}
	stored := repo.devices[d.ID]
	if stored.LastSeen == nil || !stored.LastSeen.Equal(serverTime) {
		t.Error("last_seen was not moved to the heartbeat instant")
	}
	if stored.Status != model.StatusOnline {
		t.Errorf("stored status hint should be ONLINE, got %s", stored.Status)
	}
	if len(repo.heartbeats) != 1 || repo.heartbeats[0].Battery != 80 {
		t.Errorf("telemetry sample not stored: %+v", repo.heartbeats)
	}

	// liveness holds immediately after the heartbeat
	if got := stored.Liveness(serverTime.Add(time.Second), 10*time.Minute); got != model.StatusOnline {
		t.Errorf("expected ONLINE right after heartbeat, got %s", got)
	}
	// and flips once the threshold elapses with no further heartbeat
	if got := stored.Liveness(serverTime.Add(11*time.Minute), 10*time.Minute); got != model.StatusOffline {
		t.Errorf("expected OFFLINE after threshold, got %s", got)
	}
}

func TestHeartbeatSurfacesTelemetryFailure(t *testing.T) {
	repo := newMockDeviceRepo()
	repo.failInsertHeartbeat = true
	svc := newDeviceService(repo)
	d, _ := svc.Register("Tab A8", "Android 13", "1.0.0", nil)

	if _, err := svc.Heartbeat(d.ID, service.HeartbeatInput{Battery: 50}); err == nil {
		t.Fatal("telemetry failure must surface so the device retries")
	}
}

func TestMarkStaleOfflineUsesThresholdCutoff(t *testing.T) {
	repo := newMockDeviceRepo()
	repo.staleCount = 3
	svc := newDeviceService(repo)

	count, err := svc.MarkStaleOffline()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 flipped devices, got %d", count)
	}

	wantCutoff := time.Now().UTC().Add(-10 * time.Minute)
	if diff := repo.staleCutoff.Sub(wantCutoff); diff < -time.Second || diff > time.Second {
		t.Errorf("cutoff %v not near now-threshold", repo.staleCutoff)
	}
}

func TestListDevicesDerivesStatusFromLastSeen(t *testing.T) {
	repo := newMockDeviceRepo()
	svc := newDeviceService(repo)

	stale := time.Now().UTC().Add(-time.Hour)
	repo.devices["d1"] = &model.Device{ID: "d1", DeviceCode: "THR-AAAAAA", Status: model.StatusOnline, LastSeen: &stale}
	repo.devices["d2"] = &model.Device{ID: "d2", DeviceCode: "THR-BBBBBB", Status: model.StatusOnline}

	devices, err := svc.ListDevices("", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	for _, d := range devices {
		switch d.ID {
		case "d1":
			if d.Status != model.StatusOffline {
				t.Errorf("stale device should read OFFLINE despite stored hint, got %s", d.Status)
			}
		case "d2":
			if d.Status != model.StatusInactive {
				t.Errorf("never-seen device should read INACTIVE, got %s", d.Status)
			}
		}
	}
}
