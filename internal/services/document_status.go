package services

import (
	"fmt"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

// documentPrefixes drive document numbering, e.g. "INV-00042".
var documentPrefixes = map[models.DocumentType]string{
	models.DocumentTypeInvoice:    "INV",
	models.DocumentTypeQuote:      "QUO",
	models.DocumentTypeCreditNote: "CN",
	models.DocumentTypeDebitNote:  "DN",
}

// statusTransitions is the document workflow. CONVERTED is reachable
// only through quote conversion, never via a status transition.
var statusTransitions = map[models.DocumentStatus][]models.DocumentStatus{
	models.DocumentStatusDraft:       {models.DocumentStatusSent, models.DocumentStatusVoided},
	models.DocumentStatusSent:        {models.DocumentStatusApproved, models.DocumentStatusVoided},
	models.DocumentStatusApproved:    {models.DocumentStatusPaidPartial, models.DocumentStatusPaid, models.DocumentStatusVoided},
	models.DocumentStatusPaidPartial: {models.DocumentStatusPaid, models.DocumentStatusVoided},
	models.DocumentStatusPaid:        {models.DocumentStatusVoided},
	models.DocumentStatusVoided:      {},
}

// ValidDocumentType reports whether t is one of the known types.
func ValidDocumentType(t models.DocumentType) bool {
	_, ok := documentPrefixes[t]
	return ok
}

// FormatDocumentNumber renders a sequence value as "INV-00042".
func FormatDocumentNumber(t models.DocumentType, n int) string {
	return fmt.Sprintf("%s-%05d", documentPrefixes[t], n)
}

// ValidTransitions returns the allowed target statuses from `from`.
// The slice is a copy; callers may not mutate the table through it.
func ValidTransitions(from models.DocumentStatus) []models.DocumentStatus {
	targets := statusTransitions[from]
	out := make([]models.DocumentStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether from → to is an allowed move.
func CanTransition(from, to models.DocumentStatus) bool {
	for _, t := range statusTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// StatusTransitionTable exposes the whole workflow, for the
// status-transitions endpoint.
func StatusTransitionTable() map[models.DocumentStatus][]models.DocumentStatus {
	out := make(map[models.DocumentStatus][]models.DocumentStatus, len(statusTransitions))
	for from := range statusTransitions {
		out[from] = ValidTransitions(from)
	}
	return out
}
