package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/heliomed/nearbycare/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimClient_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedLat float64
		expectedLon float64
		expectedErr func(*testing.T, error)
	}{
		{
			name:        "first candidate is used",
			status:      http.StatusOK,
			body:        `[{"lat":"28.6328","lon":"77.2197","display_name":"New Delhi"},{"lat":"1","lon":"2"}]`,
			expectedLat: 28.6328,
			expectedLon: 77.2197,
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `[]`,
			expectedErr: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, ErrNotFound))
			},
		},
		{
			name:   "upstream status error",
			status: http.StatusServiceUnavailable,
			body:   `busy`,
			expectedErr: func(t *testing.T, err error) {
				var ue *upstream.Error
				require.True(t, errors.As(err, &ue))
				assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
				assert.False(t, errors.Is(err, ErrNotFound))
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"not":"an array"}`,
			expectedErr: func(t *testing.T, err error) {
				var ue *upstream.Error
				assert.True(t, errors.As(err, &ue))
			},
		},
		{
			name:   "unparsable latitude",
			status: http.StatusOK,
			body:   `[{"lat":"north","lon":"77.2"}]`,
			expectedErr: func(t *testing.T, err error) {
				var ue *upstream.Error
				assert.True(t, errors.As(err, &ue))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string]string
			var gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				gotQuery = map[string]string{
					"postalcode": q.Get("postalcode"),
					"country":    q.Get("country"),
					"format":     q.Get("format"),
					"limit":      q.Get("limit"),
				}
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewNominatimClient(Config{BaseURL: srv.URL, UserAgent: "nearbycare-test/1.0"})
			coord, err := c.Lookup(context.Background(), srv.Client(), "110001")

			assert.Equal(t, map[string]string{
				"postalcode": "110001",
				"country":    "India",
				"format":     "json",
				"limit":      "1",
			}, gotQuery)
			assert.Equal(t, "nearbycare-test/1.0", gotUA)

			if tt.expectedErr != nil {
				require.Error(t, err)
				tt.expectedErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLat, coord.Lat)
			assert.Equal(t, tt.expectedLon, coord.Lon)
		})
	}
}

func TestNominatimClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Lookup(context.Background(), srv.Client(), "110001")

	var ue *upstream.Error
	require.True(t, errors.As(err, &ue))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewNominatimClient_Defaults(t *testing.T) {
	c := NewNominatimClient(Config{})
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultCountry, c.cfg.Country)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
}
