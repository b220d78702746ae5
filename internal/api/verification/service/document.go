package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DocumentPipeline validates an uploaded identity document, hands it to the
// extractor and normalizes what comes back.
type DocumentPipeline struct {
	extractor DocumentExtractor
	maxBytes  int64
	log       *logrus.Logger
}

func NewDocumentPipeline(extractor DocumentExtractor, maxBytes int64, log *logrus.Logger) *DocumentPipeline {
	return &DocumentPipeline{extractor: extractor, maxBytes: maxBytes, log: log}
}

// Validate runs the local checks that can reject a document without a
// network call. It fills in ContentType from the sniffed bytes.
func (d *DocumentPipeline) Validate(image *entity.DocumentImage) error {
	if len(image.Data) == 0 {
		return verification.ErrInvalidFormat
	}
	if d.maxBytes > 0 && int64(len(image.Data)) > d.maxBytes {
		return verification.ErrTooLarge
	}

	detected := mimetype.Detect(image.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return verification.ErrInvalidFormat
	}
	if image.ContentType != "" && !strings.HasPrefix(image.ContentType, "image/") {
		return verification.ErrInvalidFormat
	}
	image.ContentType = detected.String()
	return nil
}

func (d *DocumentPipeline) Extract(ctx context.Context, image entity.DocumentImage, purpose entity.DocumentPurpose, cred entity.Credential) (entity.ExtractedFields, error) {
	if err := d.Validate(&image); err != nil {
		return entity.ExtractedFields{}, err
	}

	if d.extractor == nil {
		return entity.ExtractedFields{}, verification.ErrServiceUnavailable
	}

	raw, err := d.extractor.ExtractDocument(ctx, image, purpose, cred)
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrAuthExpired),
			errors.Is(err, verification.ErrInvalidFormat),
			errors.Is(err, verification.ErrExtractionFailed):
			return entity.ExtractedFields{}, err
		}
		return entity.ExtractedFields{}, fmt.Errorf("%w: %v", verification.ErrExtractionFailed, err)
	}

	fields := NormalizeDocument(raw)
	if fields.IsEmpty() {
		return entity.ExtractedFields{}, verification.ErrExtractionFailed
	}
	return fields, nil
}

func NormalizeDocument(raw entity.RawDocument) entity.ExtractedFields {
	var name []string
	for _, part := range raw.NameParts {
		name = append(name, strings.Fields(norm.NFC.String(part))...)
	}
	if len(name) == 0 {
		name = strings.Fields(norm.NFC.String(raw.Name))
	}

	return entity.ExtractedFields{
		Name:         name,
		DateOfBirth:  NormalizeDate(raw.DateOfBirth),
		Gender:       NormalizeGender(raw.Gender),
		MobileNumber: stripSeparators(raw.MobileNumber),
		IDNumber:     strings.ToUpper(stripSeparators(raw.IDNumber)),
		Address:      strings.Join(strings.Fields(norm.NFC.String(raw.Address)), " "),
	}
}

var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
	"2 January 2006",
	"02/01/06",
}

// NormalizeDate rewrites a recognised date as DD/MM/YYYY. Unrecognised
// input is returned trimmed.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}

func NormalizeGender(raw string) entity.Gender {
	switch fold(raw) {
	case "":
		return ""
	case "m", "male", "man", "laki-laki", "pria":
		return entity.GenderMale
	case "f", "female", "woman", "perempuan", "wanita":
		return entity.GenderFemale
	case "o", "other", "x", "non-binary", "transgender":
		return entity.GenderOther
	default:
		return entity.GenderUnknown
	}
}

// fold lowercases s and drops combining marks.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t', '(', ')':
			return -1
		}
		return r
	}, s)
}
