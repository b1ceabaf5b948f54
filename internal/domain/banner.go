package domain

import (
	"fmt"
)

type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerUpload
	BannerUnderwriting
	BannerSanctioned
	BannerUnknownStage
)

// Banner is what the chat screen shows between the transcript and the input.
type Banner struct {
	Kind     BannerKind
	Document DocumentKind
	Title    string
	Body     string
}

// BannerFor maps every stage to its banner. A value outside the closed set
// yields BannerUnknownStage together with ErrUnknownStage so the caller can
// surface it instead of rendering nothing.
func BannerFor(stage Stage, awaiting Awaiting) (Banner, error) {
	switch stage {
	case StageGreeting, StageSales, StageKYC, StageKYCCollect:
		return Banner{Kind: BannerNone}, nil
	case StagePanSlip:
		return uploadBanner(DocumentPan), nil
	case StageAadhaarSlip:
		return uploadBanner(DocumentAadhaar), nil
	case StageSalarySlip:
		if !awaiting.SalarySlip {
			return Banner{Kind: BannerNone}, nil
		}
		return uploadBanner(DocumentSalarySlip), nil
	case StageUnderwriting:
		return Banner{
			Kind:  BannerUnderwriting,
			Title: "Underwriting in Progress",
			Body:  "We're evaluating your profile. This usually takes a few moments.",
		}, nil
	case StageSanction, StageComplete:
		return Banner{
			Kind:  BannerSanctioned,
			Title: "Application processed",
			Body:  "Use /download to save your sanction letter when it is available.",
		}, nil
	}
	return Banner{
		Kind:  BannerUnknownStage,
		Title: "Unknown stage",
		Body:  fmt.Sprintf("The server reported stage %q which this client does not recognise.", string(stage)),
	}, fmt.Errorf("%w: %q", ErrUnknownStage, string(stage))
}

func uploadBanner(doc DocumentKind) Banner {
	return Banner{
		Kind:     BannerUpload,
		Document: doc,
		Title:    "Upload Required",
		Body:     fmt.Sprintf("Please upload your %s to proceed: /upload <path> (.pdf, .png, .jpg)", doc.Label()),
	}
}
