package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/dtos"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/models"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/repositories"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/services"
	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/utils"
)

type DocumentController struct {
	docService services.DocumentService
	validate   *validator.Validate
}

func NewDocumentController(docService services.DocumentService) *DocumentController {
	return &DocumentController{
		docService: docService,
		validate:   validator.New(),
	}
}

func (c *DocumentController) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	f := repositories.DocumentFilter{
		DocumentType: models.DocumentType(q.Get("document_type")),
		Status:       models.DocumentStatus(q.Get("status")),
		Search:       q.Get("search"),
	}
	if raw := q.Get("contact_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.ContactID = &id
		}
	}
	if raw := q.Get("date_from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			f.DateFrom = &t
		}
	}
	if raw := q.Get("date_to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			f.DateTo = &t
		}
	}

	page := utils.ParsePage(r)
	docs, total, err := c.docService.List(r.Context(), orgID, f, page.Limit, page.Offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Count:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Results: docs,
	})
}

func (c *DocumentController) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateDocumentRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	doc, err := c.docService.Create(r.Context(), orgID, userID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

func (c *DocumentController) Get(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := c.docService.Get(r.Context(), orgID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func (c *DocumentController) Update(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}

	var req dtos.UpdateDocumentRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	doc, err := c.docService.Update(r.Context(), orgID, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func (c *DocumentController) AddLine(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}

	var req dtos.DocumentLineRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	doc, err := c.docService.AddLine(r.Context(), orgID, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

func (c *DocumentController) RemoveLine(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}
	lineID, ok := pathUUID(w, r, "lineID")
	if !ok {
		return
	}

	doc, err := c.docService.RemoveLine(r.Context(), orgID, docID, lineID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func (c *DocumentController) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}

	var req dtos.TransitionStatusRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	doc, err := c.docService.TransitionStatus(r.Context(), orgID, id, userID, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func (c *DocumentController) StatusTransitions(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.StatusTransitionsResponse{
		Transitions: services.StatusTransitionTable(),
	})
}

func (c *DocumentController) ConvertQuote(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dtos.ConvertQuoteRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	invoice, err := c.docService.ConvertQuote(r.Context(), orgID, req.QuoteID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, invoice)
}

func (c *DocumentController) Send(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "documentID")
	if !ok {
		return
	}

	var req dtos.SendDocumentRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	doc, err := c.docService.Send(r.Context(), orgID, id, userID, req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func (c *DocumentController) Summary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := requireOrgID(w, r)
	if !ok {
		return
	}

	rows, err := c.docService.Summary(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rows)
}
