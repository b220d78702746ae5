package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/api/verification/service/mocks"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDocumentPipeline_Validate(t *testing.T) {
	tests := []struct {
		name    string
		image   entity.DocumentImage
		wantErr error
	}{
		{name: "empty", image: entity.DocumentImage{}, wantErr: verification.ErrInvalidFormat},
		{name: "too large", image: entity.DocumentImage{Data: make([]byte, 2048)}, wantErr: verification.ErrTooLarge},
		{name: "not an image", image: entity.DocumentImage{Data: []byte("%PDF-1.7\n1 0 obj")}, wantErr: verification.ErrInvalidFormat},
		{name: "declared type disagrees", image: entity.DocumentImage{Data: pngBytes, ContentType: "application/pdf"}, wantErr: verification.ErrInvalidFormat},
		{name: "png", image: entity.DocumentImage{Data: pngBytes}},
	}

	d := NewDocumentPipeline(nil, 1024, testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := tt.image
			err := d.Validate(&image)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "image/png", image.ContentType)
		})
	}
}

func TestDocumentPipeline_Extract(t *testing.T) {
	image := entity.DocumentImage{Filename: "id.png", Data: pngBytes}

	t.Run("normalizes the result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)
		extractor.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), entity.PurposeKYC, gomock.Any()).
			Return(entity.RawDocument{
				Name:         "Asha  Kumari Verma",
				DateOfBirth:  "1990-02-01",
				Gender:       "F",
				MobileNumber: "+91 98765-43210",
				IDNumber:     "ab12 3456",
				Address:      " 12 Park Street\n Kolkata ",
			}, nil)

		d := NewDocumentPipeline(extractor, 1<<20, testLogger())
		fields, err := d.Extract(context.Background(), image, entity.PurposeKYC, testCredential())
		require.NoError(t, err)
		assert.Equal(t, entity.ExtractedFields{
			Name:         []string{"Asha", "Kumari", "Verma"},
			DateOfBirth:  "01/02/1990",
			Gender:       entity.GenderFemale,
			MobileNumber: "+919876543210",
			IDNumber:     "AB123456",
			Address:      "12 Park Street Kolkata",
		}, fields)
	})

	t.Run("invalid image never reaches the extractor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)

		d := NewDocumentPipeline(extractor, 1<<20, testLogger())
		_, err := d.Extract(context.Background(), entity.DocumentImage{Data: []byte("plain text")}, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrInvalidFormat)
	})

	t.Run("extractor failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)
		extractor.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{}, errors.New("model overloaded"))

		d := NewDocumentPipeline(extractor, 1<<20, testLogger())
		_, err := d.Extract(context.Background(), image, entity.PurposeLead, testCredential())
		assert.ErrorIs(t, err, verification.ErrExtractionFailed)
	})

	t.Run("expired credential passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)
		extractor.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{}, verification.ErrAuthExpired)

		d := NewDocumentPipeline(extractor, 1<<20, testLogger())
		_, err := d.Extract(context.Background(), image, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrAuthExpired)
	})

	t.Run("no extractor configured", func(t *testing.T) {
		d := NewDocumentPipeline(nil, 1<<20, testLogger())
		_, err := d.Extract(context.Background(), image, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrServiceUnavailable)
	})

	t.Run("nothing extracted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)
		extractor.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{Name: "   "}, nil)

		d := NewDocumentPipeline(extractor, 1<<20, testLogger())
		_, err := d.Extract(context.Background(), image, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrExtractionFailed)
	})
}

func TestNormalizeDocument_PrefersNameParts(t *testing.T) {
	fields := NormalizeDocument(entity.RawDocument{
		Name:      "ignored",
		NameParts: []string{"Asha", " Kumari  Verma "},
	})
	assert.Equal(t, []string{"Asha", "Kumari", "Verma"}, fields.Name)
	assert.Equal(t, "Asha Kumari Verma", fields.FullName())

	decomposed := NormalizeDocument(entity.RawDocument{Name: "Jose\u0301 Garci\u0301a"})
	assert.Equal(t, []string{"Jos\u00e9", "Garc\u00eda"}, decomposed.Name)
}

func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"01/02/1990":    "01/02/1990",
		"1/2/1990":      "01/02/1990",
		"01-02-1990":    "01/02/1990",
		"01.02.1990":    "01/02/1990",
		"1990-02-01":    "01/02/1990",
		"1990/02/01":    "01/02/1990",
		"01 Feb 1990":   "01/02/1990",
		"5 March 1990":  "05/03/1990",
		"  ":            "",
		"sometime 1990": "sometime 1990",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDate(in), in)
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := map[string]entity.Gender{
		"":              "",
		"M":             entity.GenderMale,
		"laki-laki":     entity.GenderMale,
		"Female":        entity.GenderFemale,
		"Fe\u0301male ": entity.GenderFemale,
		"X":             entity.GenderOther,
		"n/a":           entity.GenderUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeGender(in), in)
	}
}

func TestFallbackExtractor(t *testing.T) {
	image := entity.DocumentImage{Data: pngBytes}

	t.Run("falls back on failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary := mocks.NewMockDocumentExtractor(ctrl)
		fallback := mocks.NewMockDocumentExtractor(ctrl)
		primary.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{}, verification.ErrServiceUnavailable)
		fallback.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{Name: "Asha"}, nil)

		e := FallbackExtractor{Primary: primary, Fallback: fallback, Log: testLogger()}
		raw, err := e.ExtractDocument(context.Background(), image, entity.PurposeKYC, testCredential())
		require.NoError(t, err)
		assert.Equal(t, "Asha", raw.Name)
	})

	t.Run("expired credential is final", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary := mocks.NewMockDocumentExtractor(ctrl)
		fallback := mocks.NewMockDocumentExtractor(ctrl)
		primary.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{}, verification.ErrAuthExpired)

		e := FallbackExtractor{Primary: primary, Fallback: fallback}
		_, err := e.ExtractDocument(context.Background(), image, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrAuthExpired)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := FallbackExtractor{}.ExtractDocument(context.Background(), image, entity.PurposeKYC, testCredential())
		assert.ErrorIs(t, err, verification.ErrServiceUnavailable)
	})

	t.Run("no primary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fallback := mocks.NewMockDocumentExtractor(ctrl)
		fallback.EXPECT().ExtractDocument(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entity.RawDocument{IDNumber: "X1"}, nil)

		e := FallbackExtractor{Fallback: fallback}
		raw, err := e.ExtractDocument(context.Background(), image, entity.PurposeLead, testCredential())
		require.NoError(t, err)
		assert.Equal(t, "X1", raw.IDNumber)
	})
}
