package domain

import (
	"errors"
	"fmt"
)

// Stage is the server assigned step of the loan workflow. The client never
// computes transitions, it only keeps the last value received.
type Stage string

const (
	StageGreeting     Stage = "greeting"
	StageSales        Stage = "sales"
	StageKYC          Stage = "kyc"
	StageKYCCollect   Stage = "kyc_collect"
	StagePanSlip      Stage = "pan_slip"
	StageAadhaarSlip  Stage = "aadhaar_slip"
	StageSalarySlip   Stage = "salary_slip"
	StageUnderwriting Stage = "underwriting"
	StageSanction     Stage = "sanction"
	StageComplete     Stage = "complete"
)

var ErrUnknownStage = errors.New("unknown stage")

var knownStages = []Stage{
	StageGreeting,
	StageSales,
	StageKYC,
	StageKYCCollect,
	StagePanSlip,
	StageAadhaarSlip,
	StageSalarySlip,
	StageUnderwriting,
	StageSanction,
	StageComplete,
}

func Stages() []Stage {
	out := make([]Stage, len(knownStages))
	copy(out, knownStages)
	return out
}

// ParseStage validates raw against the known stages.
func ParseStage(raw string) (Stage, error) {
	for _, s := range knownStages {
		if string(s) == raw {
			return s, nil
		}
	}
	return Stage(raw), fmt.Errorf("%w: %q", ErrUnknownStage, raw)
}

func (s Stage) Known() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

func (s Stage) String() string {
	return string(s)
}

// DocumentKind names the KYC document a stage expects, if any.
type DocumentKind string

const (
	DocumentNone       DocumentKind = ""
	DocumentPan        DocumentKind = "pan"
	DocumentAadhaar    DocumentKind = "aadhaar"
	DocumentSalarySlip DocumentKind = "salary_slip"
)

func (d DocumentKind) Label() string {
	switch d {
	case DocumentPan:
		return "PAN Card"
	case DocumentAadhaar:
		return "Aadhaar Card"
	case DocumentSalarySlip:
		return "Salary Slip"
	}
	return ""
}
