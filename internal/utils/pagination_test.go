package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePageDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/x/invoicing/documents/", nil)
	p := ParsePage(r)
	require.Equal(t, DefaultPageLimit, p.Limit)
	require.Equal(t, 0, p.Offset)
}

func TestParsePageExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/x/?limit=25&offset=75", nil)
	p := ParsePage(r)
	require.Equal(t, 25, p.Limit)
	require.Equal(t, 75, p.Offset)
}

func TestParsePageClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/x/?limit=9999", nil)
	require.Equal(t, MaxPageLimit, ParsePage(r).Limit)
}

func TestParsePageIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/x/?limit=abc&offset=-5", nil)
	p := ParsePage(r)
	require.Equal(t, DefaultPageLimit, p.Limit)
	require.Equal(t, 0, p.Offset)
}
