package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/bz888/loanchat/internal/domain"
)

var ErrNoUploadHandler = errors.New("no handler for stage")

// UploadFunc sends one document to the backend.
type UploadFunc func(ctx context.Context, doc domain.Document) (*domain.ChatReply, error)

// DocumentFor names the document the backend expects at stage.
func DocumentFor(stage domain.Stage) (domain.DocumentKind, error) {
	switch stage {
	case domain.StagePanSlip:
		return domain.DocumentPan, nil
	case domain.StageAadhaarSlip:
		return domain.DocumentAadhaar, nil
	case domain.StageSalarySlip:
		return domain.DocumentSalarySlip, nil
	}
	return domain.DocumentNone, fmt.Errorf("%w %q", ErrNoUploadHandler, string(stage))
}

// UploadHandlerFor picks the upload endpoint purely from stage.
func UploadHandlerFor(b Backend, stage domain.Stage) (UploadFunc, error) {
	doc, err := DocumentFor(stage)
	if err != nil {
		return nil, err
	}
	switch doc {
	case domain.DocumentPan:
		return b.UploadPan, nil
	case domain.DocumentAadhaar:
		return b.UploadAadhaar, nil
	default:
		return b.UploadSalarySlip, nil
	}
}
