// internal/auth/device.go
package auth

import (
	"context"
	"errors"
	"net/http"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
)

const (
	HeaderDeviceCode = "X-Device-Code"
	HeaderSecretKey  = "X-Secret-Key"
)

// DeviceAuthService is the slice of DeviceService the middleware needs.
type DeviceAuthService interface {
	Authenticate(deviceCode, secretKey string) (*model.Device, error)
}

type deviceCtxKey struct{}

// DeviceFromContext returns the authenticated device set by the middleware.
func DeviceFromContext(ctx context.Context) (*model.Device, bool) {
	d, ok := ctx.Value(deviceCtxKey{}).(*model.Device)
	return d, ok
}

type DeviceAuthenticator struct {
	Service DeviceAuthService
}

// Middleware authenticates the two device credential headers. A request
// missing either header is rejected before any store lookup happens.
func (a *DeviceAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.Header.Get(HeaderDeviceCode)
		secret := r.Header.Get(HeaderSecretKey)
		if code == "" || secret == "" {
			http.Error(w, "device credentials required", http.StatusUnauthorized)
			return
		}

		device, err := a.Service.Authenticate(code, secret)
		if err != nil {
			if errors.Is(err, appErrors.ErrUnauthenticated) {
				http.Error(w, "invalid device credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "authentication error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), deviceCtxKey{}, device)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
