package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

const defaultPaymentTermsDays = 30

type ContactService interface {
	Create(ctx context.Context, orgID uuid.UUID, req *dtos.CreateContactRequest) (*models.Contact, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error)
	List(ctx context.Context, orgID uuid.UUID, f repositories.ContactFilter, limit, offset int) ([]*models.Contact, int, error)
	Update(ctx context.Context, orgID, id uuid.UUID, req *dtos.UpdateContactRequest) (*models.Contact, error)
	// Deactivate soft-deletes: documents keep referencing the contact.
	Deactivate(ctx context.Context, orgID, id uuid.UUID) error
}

type contactService struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) Create(ctx context.Context, orgID uuid.UUID, req *dtos.CreateContactRequest) (*models.Contact, error) {
	terms := req.PaymentTermsDays
	if terms == 0 {
		terms = defaultPaymentTermsDays
	}

	contact := &models.Contact{
		ID:               uuid.New(),
		OrgID:            orgID,
		Name:             req.Name,
		CompanyName:      req.CompanyName,
		Email:            req.Email,
		Phone:            req.Phone,
		UEN:              req.UEN,
		IsCustomer:       req.IsCustomer,
		IsSupplier:       req.IsSupplier,
		PaymentTermsDays: terms,
		IsActive:         true,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, orgID, id uuid.UUID) (*models.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, orgID uuid.UUID, f repositories.ContactFilter, limit, offset int) ([]*models.Contact, int, error) {
	return s.contactRepo.List(ctx, orgID, f, limit, offset)
}

func (s *contactService) Update(ctx context.Context, orgID, id uuid.UUID, req *dtos.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.CompanyName != nil {
		contact.CompanyName = *req.CompanyName
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.UEN != nil {
		contact.UEN = *req.UEN
	}
	if req.IsCustomer != nil {
		contact.IsCustomer = *req.IsCustomer
	}
	if req.IsSupplier != nil {
		contact.IsSupplier = *req.IsSupplier
	}
	if req.PaymentTermsDays != nil {
		contact.PaymentTermsDays = *req.PaymentTermsDays
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	err := s.contactRepo.Deactivate(ctx, orgID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}
