package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
)

func TestFormatDocumentNumber(t *testing.T) {
	require.Equal(t, "INV-00042", FormatDocumentNumber(models.DocumentTypeInvoice, 42))
	require.Equal(t, "QUO-00001", FormatDocumentNumber(models.DocumentTypeQuote, 1))
	require.Equal(t, "CN-00007", FormatDocumentNumber(models.DocumentTypeCreditNote, 7))
	require.Equal(t, "DN-12345", FormatDocumentNumber(models.DocumentTypeDebitNote, 12345))
}

func TestValidDocumentType(t *testing.T) {
	require.True(t, ValidDocumentType(models.DocumentTypeInvoice))
	require.True(t, ValidDocumentType(models.DocumentTypeQuote))
	require.False(t, ValidDocumentType(models.DocumentType("RECEIPT")))
	require.False(t, ValidDocumentType(models.DocumentType("")))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.DocumentStatus
		want     bool
	}{
		{models.DocumentStatusDraft, models.DocumentStatusSent, true},
		{models.DocumentStatusDraft, models.DocumentStatusVoided, true},
		{models.DocumentStatusDraft, models.DocumentStatusPaid, false},
		{models.DocumentStatusSent, models.DocumentStatusApproved, true},
		{models.DocumentStatusSent, models.DocumentStatusDraft, false},
		{models.DocumentStatusApproved, models.DocumentStatusPaidPartial, true},
		{models.DocumentStatusApproved, models.DocumentStatusPaid, true},
		{models.DocumentStatusPaidPartial, models.DocumentStatusPaid, true},
		{models.DocumentStatusPaid, models.DocumentStatusVoided, true},
		{models.DocumentStatusVoided, models.DocumentStatusDraft, false},
		{models.DocumentStatusVoided, models.DocumentStatusSent, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestConvertedIsNeverATransitionTarget(t *testing.T) {
	for from := range StatusTransitionTable() {
		require.False(t, CanTransition(from, models.DocumentStatusConverted),
			"%s must not transition to CONVERTED directly", from)
	}
}

func TestVoidedIsTerminal(t *testing.T) {
	require.Empty(t, ValidTransitions(models.DocumentStatusVoided))
}

func TestValidTransitionsReturnsCopy(t *testing.T) {
	first := ValidTransitions(models.DocumentStatusDraft)
	require.NotEmpty(t, first)
	first[0] = models.DocumentStatusPaid

	second := ValidTransitions(models.DocumentStatusDraft)
	require.Equal(t, models.DocumentStatusSent, second[0])
}
