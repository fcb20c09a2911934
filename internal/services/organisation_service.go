package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type OrganisationService interface {
	// Create sets up the organisation, the creator's OWNER membership
	// and the default SG tax codes.
	Create(ctx context.Context, ownerID uuid.UUID, req *dtos.CreateOrganisationRequest) (*models.Organisation, error)
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organisation, error)
	ListTaxCodes(ctx context.Context, orgID uuid.UUID) ([]*models.TaxCode, error)
	Summary(ctx context.Context, orgID uuid.UUID) (*dtos.OrganisationSummaryResponse, error)
}

type organisationService struct {
	orgRepo     repositories.OrganisationRepository
	taxCodeRepo repositories.TaxCodeRepository
	contactRepo repositories.ContactRepository
	docRepo     repositories.DocumentRepository
}

func NewOrganisationService(
	orgRepo repositories.OrganisationRepository,
	taxCodeRepo repositories.TaxCodeRepository,
	contactRepo repositories.ContactRepository,
	docRepo repositories.DocumentRepository,
) OrganisationService {
	return &organisationService{
		orgRepo:     orgRepo,
		taxCodeRepo: taxCodeRepo,
		contactRepo: contactRepo,
		docRepo:     docRepo,
	}
}

func (s *organisationService) Create(ctx context.Context, ownerID uuid.UUID, req *dtos.CreateOrganisationRequest) (*models.Organisation, error) {
	currency := req.BaseCurrency
	if currency == "" {
		currency = "SGD"
	}

	org := &models.Organisation{
		ID:            uuid.New(),
		Name:          req.Name,
		UEN:           req.UEN,
		GSTRegistered: req.GSTRegistered,
		GSTRegNo:      req.GSTRegNo,
		BaseCurrency:  currency,
	}
	if err := s.orgRepo.CreateWithOwner(ctx, org, ownerID); err != nil {
		return nil, err
	}

	if err := s.taxCodeRepo.SeedDefaults(ctx, org.ID); err != nil {
		return nil, err
	}

	utils.Logger.WithField("org_id", org.ID).Info("Organisation created")
	return org, nil
}

func (s *organisationService) Get(ctx context.Context, orgID uuid.UUID) (*models.Organisation, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *organisationService) ListTaxCodes(ctx context.Context, orgID uuid.UUID) ([]*models.TaxCode, error) {
	return s.taxCodeRepo.ListActive(ctx, orgID)
}

func (s *organisationService) Summary(ctx context.Context, orgID uuid.UUID) (*dtos.OrganisationSummaryResponse, error) {
	docRows, err := s.docRepo.Summary(ctx, orgID)
	if err != nil {
		return nil, err
	}

	_, contactCount, err := s.contactRepo.List(ctx, orgID, repositories.ContactFilter{}, 1, 0)
	if err != nil {
		return nil, err
	}

	// Outstanding: invoices approved or partially paid, still unpaid.
	outstanding := decimal.Zero
	docCount := 0
	for _, row := range docRows {
		docCount += row.Count
		if row.DocumentType != models.DocumentTypeInvoice {
			continue
		}
		if row.Status == models.DocumentStatusApproved || row.Status == models.DocumentStatusPaidPartial {
			outstanding = outstanding.Add(row.Total)
		}
	}

	return &dtos.OrganisationSummaryResponse{
		ContactCount:  contactCount,
		DocumentCount: docCount,
		Outstanding:   outstanding,
		Documents:     docRows,
	}, nil
}
