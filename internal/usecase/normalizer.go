package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/informedchoice/backend/internal/domain"
)

// MinQueryLength is the shortest free-text query accepted for resolution and
// autocomplete, measured in runes after trimming.
const MinQueryLength = 2

// LookupMode identifies which request field drives resolution.
type LookupMode int

const (
	ModeByID LookupMode = iota
	ModeByBarcode
	ModeByQuery
)

// String returns the mode tag used in logs.
func (m LookupMode) String() string {
	switch m {
	case ModeByID:
		return "by_id"
	case ModeByBarcode:
		return "by_barcode"
	case ModeByQuery:
		return "by_query"
	default:
		return "unknown"
	}
}

// NormalizedRequest is a single-mode lookup produced by Normalize. Only the
// field selected by Mode is populated.
type NormalizedRequest struct {
	Mode    LookupMode
	FdcID   int64
	GtinUPC string
	Query   string
}

// Normalize validates a raw search request and reduces it to exactly one
// lookup mode. Precedence: catalog id, then barcode, then query; fields below
// the selected mode are dropped, not combined. Returns ErrInvalidRequest when
// no usable field is present or the selected query is shorter than
// MinQueryLength after trimming.
func Normalize(req *domain.SearchRequest) (*NormalizedRequest, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	if req.FdcID > 0 {
		return &NormalizedRequest{Mode: ModeByID, FdcID: req.FdcID}, nil
	}

	if barcode := strings.TrimSpace(req.GtinUPC); barcode != "" {
		return &NormalizedRequest{Mode: ModeByBarcode, GtinUPC: barcode}, nil
	}

	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, domain.ErrInvalidRequest
	}
	return &NormalizedRequest{Mode: ModeByQuery, Query: query}, nil
}
