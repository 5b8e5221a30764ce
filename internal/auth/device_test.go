package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
)

type fakeDeviceAuth struct {
	device *model.Device
	calls  int
}

func (f *fakeDeviceAuth) Authenticate(deviceCode, secretKey string) (*model.Device, error) {
	f.calls++
	if f.device != nil && f.device.DeviceCode == deviceCode {
		return f.device, nil
	}
	return nil, appErrors.ErrUnauthenticated
}

func deviceProtected(svc DeviceAuthService) (http.Handler, *bool) {
	reached := false
	mw := &DeviceAuthenticator{Service: svc}
	h := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := DeviceFromContext(r.Context()); !ok {
			http.Error(w, "no device in context", http.StatusInternalServerError)
			return
		}
		reached = true
		w.WriteHeader(http.StatusOK)
	}))
	return h, &reached
}

func TestDeviceMiddlewareMissingHeaders(t *testing.T) {
	svc := &fakeDeviceAuth{}
	h, reached := deviceProtected(svc)

	cases := map[string]map[string]string{
		"no headers":  {},
		"code only":   {HeaderDeviceCode: "THR-ABC123"},
		"secret only": {HeaderSecretKey: "shh"},
	}
	for name, headers := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/device/ads", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
	if svc.calls != 0 {
		t.Errorf("incomplete credentials must be rejected before the service runs, got %d calls", svc.calls)
	}
	if *reached {
		t.Error("handler ran without credentials")
	}
}

func TestDeviceMiddlewareRejectsBadCredentials(t *testing.T) {
	svc := &fakeDeviceAuth{}
	h, reached := deviceProtected(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/device/ads", nil)
	req.Header.Set(HeaderDeviceCode, "THR-NOPE99")
	req.Header.Set(HeaderSecretKey, "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if *reached {
		t.Error("handler ran with bad credentials")
	}
}

func TestDeviceMiddlewarePutsDeviceInContext(t *testing.T) {
	svc := &fakeDeviceAuth{device: &model.Device{ID: "d1", DeviceCode: "THR-ABC123"}}
	h, reached := deviceProtected(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/device/ads", nil)
	req.Header.Set(HeaderDeviceCode, "THR-ABC123")
	req.Header.Set(HeaderSecretKey, "anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !*reached {
		t.Error("handler never ran")
	}
}
