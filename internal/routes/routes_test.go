package routes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nordeim/SG-SMB-Accounting-sub003/pkg/apiclient"
)

// The server route table and the client SDK derive the same paths
// independently. These tests pin the two together.

func TestClientDocumentPathsMatchRoutes(t *testing.T) {
	ep := apiclient.ResourceEndpoints(apiclient.KindInvoice, "{orgID}")
	require.Equal(t, DocumentsPath, ep.List)
	require.Equal(t, DocumentDetailPath, ep.Detail("{documentID}"))
}

func TestClientContactPathsMatchRoutes(t *testing.T) {
	ep := apiclient.ResourceEndpoints(apiclient.KindContact, "{orgID}")
	require.Equal(t, ContactsPath, ep.List)
	require.Equal(t, ContactDetailPath, ep.Detail("{contactID}"))
}

func TestClientAuthPathsMatchRoutes(t *testing.T) {
	require.Equal(t, AuthRegisterPath, apiclient.Auth.Register)
	require.Equal(t, AuthLoginPath, apiclient.Auth.Login)
	require.Equal(t, AuthLogoutPath, apiclient.Auth.Logout)
	require.Equal(t, AuthRefreshPath, apiclient.Auth.Refresh)
	require.Equal(t, AuthMePath, apiclient.Auth.Me)
	require.Equal(t, AuthChangePasswordPath, apiclient.Auth.ChangePassword)
	require.Equal(t, AuthOrganisationsPath, apiclient.Auth.Organisations)
}
