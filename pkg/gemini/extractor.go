package gemini

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const kycPrompt = `
Extract the identity information from this identity document and return it as JSON.
Output format:
{
	"name": ["First", "Last"],
	"gender": "Male/Female/Other",
	"date_of_birth": "DD/MM/YYYY",
	"mobile_number": "",
	"id_number": "",
	"address": ""
}
Use an empty string for anything that is not printed on the document.
Return ONLY the JSON, without any additional text.
`

const leadPrompt = `
Extract the contact details from this business card or form and return them as JSON.
Output format:
{
	"name": ["First", "Last"],
	"mobile_number": "",
	"address": ""
}
Use an empty string for anything that is not present.
Return ONLY the JSON, without any additional text.
`

// ImageAnalyzer answers a prompt about an image with text. IGemini is one;
// any other vision model with the same shape can stand in.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string, prompt string) (string, error)
}

// Extractor reads identity documents with a vision model.
type Extractor struct {
	client ImageAnalyzer
	log    *logrus.Logger
}

func NewExtractor(client ImageAnalyzer, log *logrus.Logger) *Extractor {
	return &Extractor{client: client, log: log}
}

type extraction struct {
	Name         jsoniter.RawMessage `json:"name"`
	Gender       string              `json:"gender"`
	DateOfBirth  string              `json:"date_of_birth"`
	MobileNumber string              `json:"mobile_number"`
	IDNumber     string              `json:"id_number"`
	Address      string              `json:"address"`
}

func (e *Extractor) ExtractDocument(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, _ entity.Credential) (entity.RawDocument, error) {
	prompt := kycPrompt
	if purpose == entity.PurposeLead {
		prompt = leadPrompt
	}

	text, err := e.client.AnalyzeImage(ctx, image.Data, image.ContentType, prompt)
	if err != nil {
		return entity.RawDocument{}, err
	}

	raw, err := ParseResponse(text)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"purpose": purpose,
			"error":   err.Error(),
		}).Warn("[Extractor.ExtractDocument] could not parse model response")
		return entity.RawDocument{}, err
	}
	return raw, nil
}

// ParseResponse pulls the first JSON object out of a model answer, which is
// often wrapped in prose or a code fence.
func ParseResponse(text string) (entity.RawDocument, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return entity.RawDocument{}, fmt.Errorf("%w: no JSON object in response", verification.ErrExtractionFailed)
	}

	var out extraction
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return entity.RawDocument{}, fmt.Errorf("%w: %v", verification.ErrExtractionFailed, err)
	}

	raw := entity.RawDocument{
		Gender:       out.Gender,
		DateOfBirth:  out.DateOfBirth,
		MobileNumber: out.MobileNumber,
		IDNumber:     out.IDNumber,
		Address:      out.Address,
	}

	// name is either a list of parts or a single string
	if len(out.Name) > 0 {
		var parts []string
		if err := json.Unmarshal(out.Name, &parts); err == nil {
			raw.NameParts = parts
		} else {
			var name string
			if err := json.Unmarshal(out.Name, &name); err == nil {
				raw.Name = name
			}
		}
	}
	return raw, nil
}
