// Package apiclient is a small client SDK for the ledger API. It owns
// the canonical URL shapes; the server mounts the same paths.
package apiclient

import "fmt"

const apiPrefix = "/api/v1"

// ResourceKind selects which invoicing collection an endpoint set
// points at.
type ResourceKind string

const (
	KindInvoice ResourceKind = "invoice"
	KindContact ResourceKind = "contact"
)

// resourceSegments maps a kind to its URL collection segment.
var resourceSegments = map[ResourceKind]string{
	KindInvoice: "documents",
	KindContact: "contacts",
}

// Endpoints holds the URL pair for one resource collection within one
// organisation. Every path ends with a trailing slash.
type Endpoints struct {
	List string
}

// Detail returns the path of a single resource.
func (e Endpoints) Detail(id string) string {
	return e.List + id + "/"
}

// ResourceEndpoints builds the endpoint set for a resource kind scoped
// to an organisation:
//
//	ResourceEndpoints(KindInvoice, "org").List          -> /api/v1/org/invoicing/documents/
//	ResourceEndpoints(KindInvoice, "org").Detail("id")  -> /api/v1/org/invoicing/documents/id/
//
// Unknown kinds panic: a typo here is a programming error, not a
// runtime condition.
func ResourceEndpoints(kind ResourceKind, orgID string) Endpoints {
	segment, ok := resourceSegments[kind]
	if !ok {
		panic(fmt.Sprintf("apiclient: unknown resource kind %q", kind))
	}
	return Endpoints{
		List: fmt.Sprintf("%s/%s/invoicing/%s/", apiPrefix, orgID, segment),
	}
}

// AuthEndpoints is the fixed, org-independent auth path table.
type AuthEndpoints struct {
	Register       string
	Login          string
	Logout         string
	Refresh        string
	Me             string
	ChangePassword string
	Organisations  string
}

// Auth holds the auth paths used by both the SDK and the server.
var Auth = AuthEndpoints{
	Register:       apiPrefix + "/auth/register/",
	Login:          apiPrefix + "/auth/login/",
	Logout:         apiPrefix + "/auth/logout/",
	Refresh:        apiPrefix + "/auth/refresh/",
	Me:             apiPrefix + "/auth/me/",
	ChangePassword: apiPrefix + "/auth/change-password/",
	Organisations:  apiPrefix + "/auth/organisations/",
}
