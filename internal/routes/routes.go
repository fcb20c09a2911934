package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nordeim/SG-SMB-Accounting-sub003/internal/controllers"
)

// All paths carry a trailing slash; the client SDK builds the same
// shapes and the two must never drift apart.
const (
	APIPrefix = "/api/v1"

	HealthPath = "/health/"

	AuthRegisterPath       = APIPrefix + "/auth/register/"
	AuthLoginPath          = APIPrefix + "/auth/login/"
	AuthLogoutPath         = APIPrefix + "/auth/logout/"
	AuthRefreshPath        = APIPrefix + "/auth/refresh/"
	AuthMePath             = APIPrefix + "/auth/me/"
	AuthChangePasswordPath = APIPrefix + "/auth/change-password/"
	AuthOrganisationsPath  = APIPrefix + "/auth/organisations/"

	OrganisationsPath = APIPrefix + "/organisations/"

	// Tenant-scoped paths, {orgID} resolved by TenantMiddleware.
	OrgPath         = APIPrefix + "/{orgID}/"
	OrgTaxCodesPath = OrgPath + "tax-codes/"
	OrgSummaryPath  = OrgPath + "invoicing/summary/"

	ContactsPath      = OrgPath + "invoicing/contacts/"
	ContactDetailPath = ContactsPath + "{contactID}/"

	DocumentsPath           = OrgPath + "invoicing/documents/"
	DocumentDetailPath      = DocumentsPath + "{documentID}/"
	DocumentLinesPath       = DocumentDetailPath + "lines/"
	DocumentLineDetailPath  = DocumentLinesPath + "{lineID}/"
	DocumentStatusPath      = DocumentDetailPath + "status/"
	DocumentSendPath        = DocumentDetailPath + "send/"
	DocumentTransitionsPath = DocumentsPath + "transitions/"
	DocumentsSummaryPath    = DocumentsPath + "summary/"
	QuoteConvertPath        = DocumentsPath + "convert/"
)

// Controllers groups everything the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Organisation *controllers.OrganisationController
	Contact      *controllers.ContactController
	Document     *controllers.DocumentController
	Health       *controllers.HealthController
}

// Middleware funcs applied to the protected subtrees.
type Middleware struct {
	Auth   func(http.Handler) http.Handler
	Tenant func(http.Handler) http.Handler
}

// NewRouter assembles the full route table.
func NewRouter(c Controllers, mw Middleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(HealthPath, c.Health.Health).Methods(http.MethodGet)

	// Public auth endpoints.
	r.HandleFunc(AuthRegisterPath, c.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc(AuthLoginPath, c.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc(AuthRefreshPath, c.Auth.Refresh).Methods(http.MethodPost)
	r.HandleFunc(AuthLogoutPath, c.Auth.Logout).Methods(http.MethodPost)

	// Authenticated, not tenant-scoped.
	authed := r.NewRoute().Subrouter()
	authed.Use(mw.Auth)
	authed.HandleFunc(AuthMePath, c.Auth.Me).Methods(http.MethodGet)
	authed.HandleFunc(AuthChangePasswordPath, c.Auth.ChangePassword).Methods(http.MethodPost)
	authed.HandleFunc(AuthOrganisationsPath, c.Auth.MyOrganisations).Methods(http.MethodGet)
	authed.HandleFunc(OrganisationsPath, c.Organisation.Create).Methods(http.MethodPost)
	authed.HandleFunc(OrganisationsPath, c.Auth.MyOrganisations).Methods(http.MethodGet)

	// Tenant-scoped.
	tenant := r.NewRoute().Subrouter()
	tenant.Use(mw.Auth, mw.Tenant)
	tenant.HandleFunc(OrgPath, c.Organisation.Get).Methods(http.MethodGet)
	tenant.HandleFunc(OrgTaxCodesPath, c.Organisation.TaxCodes).Methods(http.MethodGet)
	tenant.HandleFunc(OrgSummaryPath, c.Organisation.Summary).Methods(http.MethodGet)

	tenant.HandleFunc(ContactsPath, c.Contact.List).Methods(http.MethodGet)
	tenant.HandleFunc(ContactsPath, c.Contact.Create).Methods(http.MethodPost)
	tenant.HandleFunc(ContactDetailPath, c.Contact.Get).Methods(http.MethodGet)
	tenant.HandleFunc(ContactDetailPath, c.Contact.Update).Methods(http.MethodPatch)
	tenant.HandleFunc(ContactDetailPath, c.Contact.Deactivate).Methods(http.MethodDelete)

	// Literal segments under documents/ go first so they are not
	// captured by the {documentID} route.
	tenant.HandleFunc(DocumentTransitionsPath, c.Document.StatusTransitions).Methods(http.MethodGet)
	tenant.HandleFunc(DocumentsSummaryPath, c.Document.Summary).Methods(http.MethodGet)
	tenant.HandleFunc(QuoteConvertPath, c.Document.ConvertQuote).Methods(http.MethodPost)
	tenant.HandleFunc(DocumentsPath, c.Document.List).Methods(http.MethodGet)
	tenant.HandleFunc(DocumentsPath, c.Document.Create).Methods(http.MethodPost)
	tenant.HandleFunc(DocumentDetailPath, c.Document.Get).Methods(http.MethodGet)
	tenant.HandleFunc(DocumentDetailPath, c.Document.Update).Methods(http.MethodPatch)
	tenant.HandleFunc(DocumentLinesPath, c.Document.AddLine).Methods(http.MethodPost)
	tenant.HandleFunc(DocumentLineDetailPath, c.Document.RemoveLine).Methods(http.MethodDelete)
	tenant.HandleFunc(DocumentStatusPath, c.Document.TransitionStatus).Methods(http.MethodPost)
	tenant.HandleFunc(DocumentSendPath, c.Document.Send).Methods(http.MethodPost)

	return r
}
