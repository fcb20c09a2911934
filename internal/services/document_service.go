package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const issueDateLayout = "2006-01-02"

// StatusTransitionError reports a rejected workflow move along with
// the moves that would have been accepted.
type StatusTransitionError struct {
	From  models.DocumentStatus
	To    models.DocumentStatus
	Valid []models.DocumentStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

type DocumentService interface {
	Create(ctx context.Context, orgID, userID uuid.UUID, req *dtos.CreateDocumentRequest) (*models.InvoiceDocument, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.InvoiceDocument, error)
	List(ctx context.Context, orgID uuid.UUID, f repositories.DocumentFilter, limit, offset int) ([]*models.InvoiceDocument, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *dtos.UpdateDocumentRequest) (*models.InvoiceDocument, error)

	AddLine(ctx context.Context, orgID, documentID uuid.UUID, req *dtos.DocumentLineRequest) (*models.InvoiceDocument, error)
	RemoveLine(ctx context.Context, orgID, documentID, lineID uuid.UUID) (*models.InvoiceDocument, error)

	TransitionStatus(ctx context.Context, orgID, documentID, userID uuid.UUID, to models.DocumentStatus) (*models.InvoiceDocument, error)
	// ConvertQuote copies a SENT or APPROVED quote into a new DRAFT
	// invoice and marks the quote CONVERTED.
	ConvertQuote(ctx context.Context, orgID, quoteID, userID uuid.UUID) (*models.InvoiceDocument, error)

	Send(ctx context.Context, orgID, documentID, userID uuid.UUID, emailOverride string) (*models.InvoiceDocument, error)
	Summary(ctx context.Context, orgID uuid.UUID) ([]*repositories.DocumentSummaryRow, error)
}

type documentService struct {
	docRepo     repositories.DocumentRepository
	contactRepo repositories.ContactRepository
	taxCodeRepo repositories.TaxCodeRepository
	orgRepo     repositories.OrganisationRepository
	mailer      InvoiceMailer
}

func NewDocumentService(
	docRepo repositories.DocumentRepository,
	contactRepo repositories.ContactRepository,
	taxCodeRepo repositories.TaxCodeRepository,
	orgRepo repositories.OrganisationRepository,
	mailer InvoiceMailer,
) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		contactRepo: contactRepo,
		taxCodeRepo: taxCodeRepo,
		orgRepo:     orgRepo,
		mailer:      mailer,
	}
}

func (s *documentService) Create(ctx context.Context, orgID, userID uuid.UUID, req *dtos.CreateDocumentRequest) (*models.InvoiceDocument, error) {
	if !ValidDocumentType(req.DocumentType) {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    fmt.Sprintf("unknown document type %q", req.DocumentType),
		}
	}

	contact, err := s.contactRepo.GetByID(ctx, orgID, req.ContactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeValidation,
				Message:    "contact does not exist",
			}
		}
		return nil, err
	}
	if !contact.IsActive {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "contact is inactive",
		}
	}

	issueDate, err := time.Parse(issueDateLayout, req.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate := issueDate.AddDate(0, 0, contact.PaymentTermsDays)
	if req.DueDate != "" {
		if dueDate, err = time.Parse(issueDateLayout, req.DueDate); err != nil {
			return nil, err
		}
	}

	seq, err := s.docRepo.NextDocumentNumber(ctx, orgID, req.DocumentType)
	if err != nil {
		return nil, err
	}

	doc := &models.InvoiceDocument{
		ID:             uuid.New(),
		OrgID:          orgID,
		DocumentType:   req.DocumentType,
		DocumentNumber: FormatDocumentNumber(req.DocumentType, seq),
		ContactID:      contact.ID,
		ContactSnapshot: models.ContactSnapshot{
			Name:        contact.Name,
			CompanyName: contact.CompanyName,
			Email:       contact.Email,
			Phone:       contact.Phone,
			UEN:         contact.UEN,
		},
		IssueDate: issueDate,
		DueDate:   dueDate,
		Reference: req.Reference,
		Notes:     req.Notes,
		Status:    models.DocumentStatusDraft,
		SubTotal:  decimal.Zero,
		GSTTotal:  decimal.Zero,
		Total:     decimal.Zero,
		CreatedBy: &userID,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	for i := range req.Lines {
		line, err := s.buildLine(ctx, orgID, doc.ID, &req.Lines[i])
		if err != nil {
			return nil, err
		}
		if err := s.docRepo.InsertLine(ctx, line); err != nil {
			return nil, err
		}
	}
	if len(req.Lines) > 0 {
		if err := s.recalcTotals(ctx, orgID, doc.ID); err != nil {
			return nil, err
		}
	}

	utils.Logger.WithField("document", doc.DocumentNumber).Info("Document created")
	return s.Get(ctx, orgID, doc.ID)
}

func (s *documentService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.InvoiceDocument, error) {
	doc, err := s.docRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, orgID uuid.UUID, f repositories.DocumentFilter, limit, offset int) ([]*models.InvoiceDocument, int, error) {
	return s.docRepo.List(ctx, orgID, f, limit, offset)
}

func (s *documentService) Update(ctx context.Context, orgID, id uuid.UUID, req *dtos.UpdateDocumentRequest) (*models.InvoiceDocument, error) {
	mutate := func(d *models.InvoiceDocument) error {
		if d.Status != models.DocumentStatusDraft {
			return utils.ErrDocumentLocked
		}
		if req.DueDate != nil {
			due, err := time.Parse(issueDateLayout, *req.DueDate)
			if err != nil {
				return err
			}
			d.DueDate = due
		}
		if req.Reference != nil {
			d.Reference = *req.Reference
		}
		if req.Notes != nil {
			d.Notes = *req.Notes
		}
		return nil
	}
	if err := s.docRepo.UpdateWithRetry(ctx, orgID, id, mutate); err != nil {
		return nil, mapDocumentError(err)
	}
	return s.Get(ctx, orgID, id)
}

func (s *documentService) AddLine(ctx context.Context, orgID, documentID uuid.UUID, req *dtos.DocumentLineRequest) (*models.InvoiceDocument, error) {
	doc, err := s.Get(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentStatusDraft {
		return nil, utils.ErrDocumentLocked
	}

	line, err := s.buildLine(ctx, orgID, documentID, req)
	if err != nil {
		return nil, err
	}
	if err := s.docRepo.InsertLine(ctx, line); err != nil {
		return nil, err
	}
	if err := s.recalcTotals(ctx, orgID, documentID); err != nil {
		return nil, err
	}
	return s.Get(ctx, orgID, documentID)
}

func (s *documentService) RemoveLine(ctx context.Context, orgID, documentID, lineID uuid.UUID) (*models.InvoiceDocument, error) {
	doc, err := s.Get(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentStatusDraft {
		return nil, utils.ErrDocumentLocked
	}

	if err := s.docRepo.DeleteLine(ctx, orgID, documentID, lineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	if err := s.recalcTotals(ctx, orgID, documentID); err != nil {
		return nil, err
	}
	return s.Get(ctx, orgID, documentID)
}

func (s *documentService) TransitionStatus(ctx context.Context, orgID, documentID, userID uuid.UUID, to models.DocumentStatus) (*models.InvoiceDocument, error) {
	mutate := func(d *models.InvoiceDocument) error {
		if to == models.DocumentStatusConverted || !CanTransition(d.Status, to) {
			return &StatusTransitionError{
				From:  d.Status,
				To:    to,
				Valid: ValidTransitions(d.Status),
			}
		}

		now := time.Now()
		switch to {
		case models.DocumentStatusApproved:
			d.ApprovedAt = &now
			d.ApprovedBy = &userID
		case models.DocumentStatusVoided:
			d.VoidedAt = &now
			d.VoidedBy = &userID
		}
		d.Status = to
		return nil
	}
	if err := s.docRepo.UpdateWithRetry(ctx, orgID, documentID, mutate); err != nil {
		return nil, mapDocumentError(err)
	}
	return s.Get(ctx, orgID, documentID)
}

func (s *documentService) ConvertQuote(ctx context.Context, orgID, quoteID, userID uuid.UUID) (*models.InvoiceDocument, error) {
	quote, err := s.Get(ctx, orgID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.DocumentType != models.DocumentTypeQuote {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "only quotes can be converted",
		}
	}
	if quote.Status != models.DocumentStatusSent && quote.Status != models.DocumentStatusApproved {
		return nil, &StatusTransitionError{
			From:  quote.Status,
			To:    models.DocumentStatusConverted,
			Valid: ValidTransitions(quote.Status),
		}
	}

	seq, err := s.docRepo.NextDocumentNumber(ctx, orgID, models.DocumentTypeInvoice)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now().Truncate(24 * time.Hour)
	dueDate := issueDate.AddDate(0, 0, defaultPaymentTermsDays)
	if contact, err := s.contactRepo.GetByID(ctx, orgID, quote.ContactID); err == nil {
		dueDate = issueDate.AddDate(0, 0, contact.PaymentTermsDays)
	}

	invoice := &models.InvoiceDocument{
		ID:              uuid.New(),
		OrgID:           orgID,
		DocumentType:    models.DocumentTypeInvoice,
		DocumentNumber:  FormatDocumentNumber(models.DocumentTypeInvoice, seq),
		ContactID:       quote.ContactID,
		ContactSnapshot: quote.ContactSnapshot,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Reference:       quote.DocumentNumber,
		Notes:           quote.Notes,
		Status:          models.DocumentStatusDraft,
		SubTotal:        quote.SubTotal,
		GSTTotal:        quote.GSTTotal,
		Total:           quote.Total,
		CreatedBy:       &userID,
	}
	if err := s.docRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	for _, l := range quote.Lines {
		copied := *l
		copied.ID = uuid.New()
		copied.DocumentID = invoice.ID
		if err := s.docRepo.InsertLine(ctx, &copied); err != nil {
			return nil, err
		}
	}

	mutate := func(d *models.InvoiceDocument) error {
		if d.Status != models.DocumentStatusSent && d.Status != models.DocumentStatusApproved {
			return &StatusTransitionError{
				From:  d.Status,
				To:    models.DocumentStatusConverted,
				Valid: ValidTransitions(d.Status),
			}
		}
		d.Status = models.DocumentStatusConverted
		d.ConvertedToID = &invoice.ID
		return nil
	}
	if err := s.docRepo.UpdateWithRetry(ctx, orgID, quoteID, mutate); err != nil {
		return nil, mapDocumentError(err)
	}

	utils.Logger.WithFields(map[string]any{
		"quote":   quote.DocumentNumber,
		"invoice": invoice.DocumentNumber,
	}).Info("Quote converted")
	return s.Get(ctx, orgID, invoice.ID)
}

func (s *documentService) Send(ctx context.Context, orgID, documentID, userID uuid.UUID, emailOverride string) (*models.InvoiceDocument, error) {
	doc, err := s.Get(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == models.DocumentStatusVoided || doc.Status == models.DocumentStatusConverted {
		return nil, utils.ErrDocumentLocked
	}

	to := emailOverride
	if to == "" {
		to = doc.ContactSnapshot.Email
	}
	if to == "" {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "no recipient email on the document",
		}
	}

	if s.mailer == nil {
		return nil, utils.ErrExternalServiceFailure
	}

	// The mail goes out in the issuing organisation's name.
	orgName := ""
	if org, err := s.orgRepo.GetByID(ctx, orgID); err == nil {
		orgName = org.Name
	}
	if err := s.mailer.SendInvoice(ctx, to, orgName, doc); err != nil {
		return nil, err
	}

	if doc.Status == models.DocumentStatusDraft {
		return s.TransitionStatus(ctx, orgID, documentID, userID, models.DocumentStatusSent)
	}
	return doc, nil
}

func (s *documentService) Summary(ctx context.Context, orgID uuid.UUID) ([]*repositories.DocumentSummaryRow, error) {
	return s.docRepo.Summary(ctx, orgID)
}

func (s *documentService) buildLine(ctx context.Context, orgID, documentID uuid.UUID, req *dtos.DocumentLineRequest) (*models.InvoiceLine, error) {
	taxCode, err := s.taxCodeRepo.GetByID(ctx, orgID, req.TaxCodeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeValidation,
				Message:    "tax code does not exist",
			}
		}
		return nil, err
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if !quantity.IsPositive() {
		return nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeValidation,
			Message:    "quantity must be positive",
		}
	}

	gst := CalculateLineGST(quantity.Mul(req.UnitPrice), taxCode.Rate, req.IsBCRSDeposit)

	return &models.InvoiceLine{
		ID:            uuid.New(),
		DocumentID:    documentID,
		OrgID:         orgID,
		Description:   req.Description,
		Quantity:      quantity,
		UnitPrice:     req.UnitPrice,
		Amount:        gst.NetAmount,
		TaxCodeID:     taxCode.ID,
		TaxRate:       taxCode.Rate,
		GSTAmount:     gst.GSTAmount,
		TotalAmount:   gst.TotalAmount,
		IsBCRSDeposit: req.IsBCRSDeposit,
	}, nil
}

func (s *documentService) recalcTotals(ctx context.Context, orgID, documentID uuid.UUID) error {
	lines, err := s.docRepo.ListLines(ctx, orgID, documentID)
	if err != nil {
		return err
	}

	perLine := make([]LineGST, 0, len(lines))
	for _, l := range lines {
		perLine = append(perLine, LineGST{
			NetAmount:   l.Amount,
			GSTAmount:   l.GSTAmount,
			TotalAmount: l.TotalAmount,
		})
	}
	totals := SumLineGST(perLine)

	mutate := func(d *models.InvoiceDocument) error {
		d.SubTotal = totals.NetAmount
		d.GSTTotal = totals.GSTAmount
		d.Total = totals.TotalAmount
		return nil
	}
	return s.docRepo.UpdateWithRetry(ctx, orgID, documentID, mutate)
}

func mapDocumentError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}
