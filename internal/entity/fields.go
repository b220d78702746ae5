package entity

import "strings"

type Gender string

const (
	GenderUnknown Gender = "Unknown"
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderOther   Gender = "Other"
)

// ExtractedFields is the canonical identity record used to prefill the
// application. Every field is optional.
type ExtractedFields struct {
	Name         []string `json:"name,omitempty"`
	DateOfBirth  string   `json:"date_of_birth,omitempty"`
	Gender       Gender   `json:"gender,omitempty"`
	MobileNumber string   `json:"mobile_number,omitempty"`
	IDNumber     string   `json:"id_number,omitempty"`
	Address      string   `json:"address,omitempty"`
}

func (f ExtractedFields) FullName() string {
	return strings.Join(f.Name, " ")
}

func (f ExtractedFields) IsEmpty() bool {
	return len(f.Name) == 0 && f.DateOfBirth == "" && f.Gender == "" &&
		f.MobileNumber == "" && f.IDNumber == "" && f.Address == ""
}

// Merge folds src into f. Without replace a field is only taken from src
// when it is empty in f; with replace src becomes the whole record.
func (f ExtractedFields) Merge(src ExtractedFields, replace bool) ExtractedFields {
	if replace {
		out := src
		out.Name = append([]string(nil), src.Name...)
		return out
	}

	out := f
	if len(out.Name) == 0 && len(src.Name) > 0 {
		out.Name = append([]string(nil), src.Name...)
	}
	if out.DateOfBirth == "" {
		out.DateOfBirth = src.DateOfBirth
	}
	if out.Gender == "" || out.Gender == GenderUnknown {
		if src.Gender != "" {
			out.Gender = src.Gender
		}
	}
	if out.MobileNumber == "" {
		out.MobileNumber = src.MobileNumber
	}
	if out.IDNumber == "" {
		out.IDNumber = src.IDNumber
	}
	if out.Address == "" {
		out.Address = src.Address
	}
	return out
}

// RawDocument is the loosely shaped payload returned by a document extractor
// before normalization.
type RawDocument struct {
	Name         string   `json:"name"`
	NameParts    []string `json:"name_parts"`
	DateOfBirth  string   `json:"date_of_birth"`
	Gender       string   `json:"gender"`
	MobileNumber string   `json:"mobile_number"`
	IDNumber     string   `json:"id_number"`
	Address      string   `json:"address"`
}
