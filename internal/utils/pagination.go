package utils

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset query params, clamping to sane bounds.
func ParsePage(r *http.Request) Page {
	p := Page{Limit: DefaultPageLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	return p
}

// PaginatedResponse is the envelope for every list endpoint.
type PaginatedResponse struct {
	Count   int `json:"count"`
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Results any `json:"results"`
}
