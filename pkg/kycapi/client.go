package kycapi

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	reasonCollecting = "collecting_frames"
	reasonNoFace     = "No face detected"

	defaultBaseURL = "http://localhost:8001"
)

type IClient interface {
	SubmitLivenessFrame(ctx context.Context, frame entity.Frame, probeID string, cred entity.Credential) (entity.LivenessVerdict, error)
	MatchFaces(ctx context.Context, selfie entity.Frame, document entity.DocumentImage, cred entity.Credential) (entity.MatchResult, error)
	ExtractDocument(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, cred entity.Credential) (entity.RawDocument, error)
	HealthCheck(ctx context.Context) error
}

// Client talks to the verification backend that hosts the liveness,
// face match and OCR endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func New(log *logrus.Logger) *Client {
	baseURL := os.Getenv("KYC_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return NewClient(baseURL, &http.Client{Timeout: 30 * time.Second}, log)
}

func NewClient(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

type livenessResponse struct {
	Live            bool   `json:"live"`
	Reason          string `json:"reason"`
	FramesCollected int    `json:"frames_collected"`
	FramesAnalyzed  int    `json:"frames_analyzed"`
}

// SubmitLivenessFrame adds a frame to the probe's sequence on the backend.
func (c *Client) SubmitLivenessFrame(ctx context.Context, frame entity.Frame, probeID string, cred entity.Credential) (entity.LivenessVerdict, error) {
	form := newForm()
	form.field("user_id", probeID)
	form.file("frame", "frame.jpg", frame.ContentType, frame.Data)

	var res livenessResponse
	if err := c.post(ctx, "/liveness-webcam", form, cred, &res); err != nil {
		return entity.LivenessVerdict{}, err
	}

	switch {
	case res.Live:
		return entity.LivenessVerdict{Live: true, FramesCollected: res.FramesAnalyzed}, nil
	case res.Reason == reasonNoFace:
		return entity.LivenessVerdict{NoFace: true}, nil
	case res.Reason == reasonCollecting:
		return entity.LivenessVerdict{Collecting: true, FramesCollected: res.FramesCollected}, nil
	case res.FramesAnalyzed > 0:
		// analyzed but not enough movement yet
		return entity.LivenessVerdict{Collecting: true, FramesCollected: res.FramesAnalyzed}, nil
	default:
		return entity.LivenessVerdict{}, fmt.Errorf("%w: liveness unavailable: %s", verification.ErrServiceUnavailable, res.Reason)
	}
}

type verifyResponse struct {
	Verified  bool     `json:"verified"`
	Distance  *float64 `json:"distance"`
	Threshold float64  `json:"threshold_used"`
}

// MatchFaces compares the selfie with the face on the document.
func (c *Client) MatchFaces(ctx context.Context, selfie entity.Frame, document entity.DocumentImage, cred entity.Credential) (entity.MatchResult, error) {
	form := newForm()
	form.file("selfie", "selfie.jpg", selfie.ContentType, selfie.Data)
	form.file("idphoto", nonEmpty(document.Filename, "document.jpg"), document.ContentType, document.Data)

	var res verifyResponse
	if err := c.post(ctx, "/verify", form, cred, &res); err != nil {
		return entity.MatchResult{}, err
	}

	out := entity.MatchResult{Verified: res.Verified}
	if res.Distance != nil {
		similarity := 1 - *res.Distance
		out.Similarity = &similarity
	}

	c.log.WithFields(logrus.Fields{
		"verified": res.Verified,
		"distance": res.Distance,
	}).Info("Face match completed")

	return out, nil
}

type kycResponse struct {
	Success bool `json:"success"`
	KYCData struct {
		Name          []string `json:"name"`
		Gender        *string  `json:"gender"`
		DateOfBirth   *string  `json:"date_of_birth"`
		MobileNumber  *string  `json:"mobile_number"`
		AadhaarNumber *string  `json:"aadhaar_number"`
		PANNumber     *string  `json:"pan_number"`
		Address       *string  `json:"address"`
	} `json:"kyc_data"`
}

type leadsResponse struct {
	Success bool `json:"success"`
	Leads   []struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	} `json:"leads"`
}

// ExtractDocument runs the backend OCR on an identity document or a lead
// card.
func (c *Client) ExtractDocument(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, cred entity.Credential) (entity.RawDocument, error) {
	form := newForm()
	form.file("document", nonEmpty(image.Filename, "document.jpg"), image.ContentType, image.Data)

	if purpose == entity.PurposeLead {
		var res leadsResponse
		if err := c.post(ctx, "/extract-leads", form, cred, &res); err != nil {
			return entity.RawDocument{}, err
		}
		if len(res.Leads) == 0 {
			return entity.RawDocument{}, verification.ErrExtractionFailed
		}
		lead := res.Leads[0]
		return entity.RawDocument{Name: lead.Name, MobileNumber: lead.Phone, Address: lead.Address}, nil
	}

	form.field("use_api", "false")
	var res kycResponse
	if err := c.post(ctx, "/extract-kyc-data", form, cred, &res); err != nil {
		return entity.RawDocument{}, err
	}
	if !res.Success {
		return entity.RawDocument{}, verification.ErrExtractionFailed
	}

	data := res.KYCData
	idNumber := deref(data.AadhaarNumber)
	if idNumber == "" {
		idNumber = deref(data.PANNumber)
	}
	return entity.RawDocument{
		NameParts:    data.Name,
		Gender:       deref(data.Gender),
		DateOfBirth:  deref(data.DateOfBirth),
		MobileNumber: deref(data.MobileNumber),
		IDNumber:     idNumber,
		Address:      deref(data.Address),
	}, nil
}

func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, form *multipartForm, cred entity.Credential, out interface{}) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", contentType)
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", verification.ErrServiceUnavailable, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return verification.ErrAuthExpired
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %s rejected the image", verification.ErrInvalidFormat, path)
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s failed with status %d: %s", verification.ErrServiceUnavailable, path, resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", verification.ErrServiceUnavailable, path, err)
	}
	return nil
}

type multipartForm struct {
	fields []formPart
}

type formPart struct {
	name        string
	filename    string
	contentType string
	data        []byte
}

func newForm() *multipartForm { return &multipartForm{} }

func (f *multipartForm) field(name, value string) {
	f.fields = append(f.fields, formPart{name: name, data: []byte(value)})
}

func (f *multipartForm) file(name, filename, contentType string, data []byte) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	f.fields = append(f.fields, formPart{name: name, filename: filename, contentType: contentType, data: data})
}

func (f *multipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.fields {
		if p.filename == "" {
			if err := w.WriteField(p.name, string(p.data)); err != nil {
				return nil, "", err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		h.Set("Content-Type", p.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(p.data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
