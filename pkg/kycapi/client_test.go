package kycapi

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(srv.URL, srv.Client(), log)
}

var cred = entity.Credential{Token: "token-123", ExpiresAt: time.Now().Add(time.Hour)}

func TestSubmitLivenessFrame(t *testing.T) {
	tests := []struct {
		name string
		body string
		want entity.LivenessVerdict
	}{
		{
			name: "collecting",
			body: `{"live": false, "reason": "collecting_frames", "frames_collected": 3}`,
			want: entity.LivenessVerdict{Collecting: true, FramesCollected: 3},
		},
		{
			name: "no face",
			body: `{"live": false, "reason": "No face detected"}`,
			want: entity.LivenessVerdict{NoFace: true},
		},
		{
			name: "live",
			body: `{"live": true, "average_displacement": 0.03, "threshold": 0.02, "frames_analyzed": 6}`,
			want: entity.LivenessVerdict{Live: true, FramesCollected: 6},
		},
		{
			name: "analyzed without enough movement",
			body: `{"live": false, "average_displacement": 0.01, "threshold": 0.02, "frames_analyzed": 7}`,
			want: entity.LivenessVerdict{Collecting: true, FramesCollected: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/liveness-webcam", r.URL.Path)
				assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
				assert.NoError(t, r.ParseMultipartForm(1<<20))
				assert.Equal(t, "probe-1", r.FormValue("user_id"))
				_, fh, err := r.FormFile("frame")
				assert.NoError(t, err)
				assert.Equal(t, "image/jpeg", fh.Header.Get("Content-Type"))
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.SubmitLivenessFrame(context.Background(), entity.Frame{Data: []byte{0xff, 0xd8}}, "probe-1", cred)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitLivenessFrame_Unavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"live": false, "reason": "MediaPipe not installed"}`))
	})

	_, err := client.SubmitLivenessFrame(context.Background(), entity.Frame{Data: []byte{1}}, "p", cred)
	assert.ErrorIs(t, err, verification.ErrServiceUnavailable)
}

func TestMatchFaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verify", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("selfie")
		assert.NoError(t, err)
		_, fh, err := r.FormFile("idphoto")
		assert.NoError(t, err)
		assert.Equal(t, "passport.png", fh.Filename)
		_, _ = w.Write([]byte(`{"verified": true, "distance": 0.25, "threshold_used": 0.4}`))
	})

	got, err := client.MatchFaces(context.Background(),
		entity.Frame{Data: []byte{1}},
		entity.DocumentImage{Filename: "passport.png", ContentType: "image/png", Data: []byte{2}},
		cred)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	require.NotNil(t, got.Similarity)
	assert.InDelta(t, 0.75, *got.Similarity, 1e-9)
}

func TestPost_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, verification.ErrAuthExpired},
		{"forbidden", http.StatusForbidden, verification.ErrAuthExpired},
		{"bad image", http.StatusBadRequest, verification.ErrInvalidFormat},
		{"server error", http.StatusInternalServerError, verification.ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.MatchFaces(context.Background(), entity.Frame{Data: []byte{1}}, entity.DocumentImage{Data: []byte{2}}, cred)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractDocument_KYC(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract-kyc-data", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "false", r.FormValue("use_api"))
		_, _ = w.Write([]byte(`{
			"success": true,
			"kyc_data": {
				"name": ["Asha", "Rao"],
				"gender": "F",
				"date_of_birth": "01-02-1990",
				"mobile_number": null,
				"aadhaar_number": "123412341234",
				"pan_number": "ABCDE1234F",
				"address": "12 MG Road"
			}
		}`))
	})

	got, err := client.ExtractDocument(context.Background(), entity.DocumentImage{Data: []byte{1}}, entity.PurposeKYC, cred)
	require.NoError(t, err)
	assert.Equal(t, entity.RawDocument{
		NameParts:   []string{"Asha", "Rao"},
		Gender:      "F",
		DateOfBirth: "01-02-1990",
		IDNumber:    "123412341234",
		Address:     "12 MG Road",
	}, got)
}

func TestExtractDocument_Lead(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract-leads", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "leads": [{"name": "Ravi Kumar", "phone": "+91 98765 43210", "company": "Acme"}]}`))
	})

	got, err := client.ExtractDocument(context.Background(), entity.DocumentImage{Data: []byte{1}}, entity.PurposeLead, cred)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Name)
	assert.Equal(t, "+91 98765 43210", got.MobileNumber)
}

func TestExtractDocument_NoLeads(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "leads": []}`))
	})

	_, err := client.ExtractDocument(context.Background(), entity.DocumentImage{Data: []byte{1}}, entity.PurposeLead, cred)
	assert.ErrorIs(t, err, verification.ErrExtractionFailed)
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	assert.NoError(t, client.HealthCheck(context.Background()))
}
