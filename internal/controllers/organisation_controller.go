package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type OrganisationController struct {
	orgService services.OrganisationService
	validate   *validator.Validate
}

func NewOrganisationController(orgService services.OrganisationService) *OrganisationController {
	return &OrganisationController{
		orgService: orgService,
		validate:   validator.New(),
	}
}

func (c *OrganisationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateOrganisationRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	org, err := c.orgService.Create(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, org)
}

func (c *OrganisationController) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	org, err := c.orgService.Get(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, org)
}

func (c *OrganisationController) TaxCodes(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	codes, err := c.orgService.ListTaxCodes(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, codes)
}

func (c *OrganisationController) Summary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	summary, err := c.orgService.Summary(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}
