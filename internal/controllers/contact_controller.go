package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type ContactController struct {
	contactService services.ContactService
	validate       *validator.Validate
}

func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
		validate:       validator.New(),
	}
}

func (c *ContactController) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	f := repositories.ContactFilter{Search: r.URL.Query().Get("search")}
	f.IsCustomer = queryBool(r, "is_customer")
	f.IsSupplier = queryBool(r, "is_supplier")
	f.IsActive = queryBool(r, "is_active")

	page := utils.ParsePage(r)
	contacts, total, err := c.contactService.List(r.Context(), orgID, f, page.Limit, page.Offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Count:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Results: contacts,
	})
}

func (c *ContactController) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateContactRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	contact, err := c.contactService.Create(r.Context(), orgID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, contact)
}

func (c *ContactController) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "contactID")
	if !ok {
		return
	}

	contact, err := c.contactService.Get(r.Context(), orgID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

func (c *ContactController) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "contactID")
	if !ok {
		return
	}

	var req dtos.UpdateContactRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	contact, err := c.contactService.Update(r.Context(), orgID, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contact)
}

func (c *ContactController) Deactivate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "contactID")
	if !ok {
		return
	}

	if err := c.contactService.Deactivate(r.Context(), orgID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryBool(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return utils.Ptr(v)
}
