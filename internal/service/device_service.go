// internal/service/device_service.go
package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
)

const deviceCodePrefix = "THR"

type DeviceService struct {
	DeviceRepo       repository.DeviceRepositoryInterface
	PollingInterval  int // seconds, handed to devices at registration
	OfflineThreshold time.Duration
}

// HeartbeatInput is one telemetry sample as sent by the tablet.
type HeartbeatInput struct {
	Battery       int
	IsCharging    bool
	StorageFreeGB float64
	Latitude      *float64
	Longitude     *float64
	NetworkType   *string
}

// Register creates a device identity on first launch and returns the
// credentials the tablet will present on every later call.
func (s *DeviceService) Register(deviceModel, osVersion, appVersion string, serialNumber *string) (*model.Device, error) {
	code, err := generateDeviceCode()
	if err != nil {
		return nil, err
	}
	secret, err := generateSecretKey()
	if err != nil {
		return nil, err
	}

	d := &model.Device{
		ID:           uuid.NewString(),
		DeviceCode:   code,
		SecretKey:    secret,
		Status:       model.StatusOffline,
		SerialNumber: serialNumber,
	}
	if deviceModel != "" {
		d.Model = &deviceModel
	}
	if osVersion != "" {
		d.OSVersion = &osVersion
	}
	if appVersion != "" {
		d.AppVersion = &appVersion
	}

	if err := s.DeviceRepo.Create(d); err != nil {
		return nil, err
	}

	log.Println("✅ Device registered:", code)
	return d, nil
}

// Authenticate checks the device code and secret. The secret comparison is
// timing-safe, and unknown code vs wrong secret collapse into the same
// error so device codes cannot be enumerated.
func (s *DeviceService) Authenticate(deviceCode, secretKey string) (*model.Device, error) {
	if deviceCode == "" || secretKey == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	d, err := s.DeviceRepo.FindByCode(deviceCode)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, appErrors.ErrUnauthenticated
	}
	if subtle.ConstantTimeCompare([]byte(d.SecretKey), []byte(secretKey)) != 1 {
		return nil, appErrors.ErrUnauthenticated
	}
	return d, nil
}

// Heartbeat moves last_seen to now and stores the telemetry sample. Both
// writes are synchronous; failure is surfaced so the device retries.
func (s *DeviceService) Heartbeat(deviceID string, in HeartbeatInput) (time.Time, error) {
	now := time.Now().UTC()

	if err := s.DeviceRepo.UpdateLastSeen(deviceID, now, model.StatusOnline); err != nil {
		return time.Time{}, err
	}

	h := &model.Heartbeat{
		ID:            uuid.NewString(),
		DeviceID:      deviceID,
		Battery:       in.Battery,
		IsCharging:    in.IsCharging,
		StorageFreeGB: in.StorageFreeGB,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		NetworkType:   in.NetworkType,
		CreatedAt:     now,
	}
	if err := s.DeviceRepo.InsertHeartbeat(h); err != nil {
		return time.Time{}, err
	}

	return now, nil
}

// MarkStaleOffline flips the stored status hint for devices past the
// offline threshold. An optimization for the admin list view; liveness is
// still derived from last_seen wherever it matters.
func (s *DeviceService) MarkStaleOffline() (int64, error) {
	cutoff := time.Now().UTC().Add(-s.OfflineThreshold)
	return s.DeviceRepo.MarkStaleOffline(cutoff)
}

// ListDevices returns devices with the status field replaced by derived
// liveness. The stored column is only a hint.
func (s *DeviceService) ListDevices(city, status string) ([]*model.Device, error) {
	devices, err := s.DeviceRepo.List(city, status)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, d := range devices {
		d.Status = d.Liveness(now, s.OfflineThreshold)
	}
	return devices, nil
}

func (s *DeviceService) GetDevice(id string) (*model.Device, error) {
	d, err := s.DeviceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, appErrors.NewNotFound("device", id)
	}
	d.Status = d.Liveness(time.Now().UTC(), s.OfflineThreshold)
	return d, nil
}

func (s *DeviceService) UpdateDevice(id string, city, driverID *string) (*model.Device, error) {
	if city == nil && driverID == nil {
		return nil, appErrors.NewValidation("no update data provided")
	}
	if err := s.DeviceRepo.UpdateAssignment(id, city, driverID); err != nil {
		return nil, err
	}
	return s.GetDevice(id)
}

func (s *DeviceService) DeleteDevice(id string) error {
	return s.DeviceRepo.Delete(id)
}

// generateDeviceCode returns an identifier like THR-7GK2QX.
func generateDeviceCode() (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return fmt.Sprintf("%s-%s", deviceCodePrefix, string(buf)), nil
}

// generateSecretKey returns a 64-character URL-safe bearer secret.
func generateSecretKey() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
