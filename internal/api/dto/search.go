package dto

import "github.com/letspunt/adpage/internal/domain"

type SearchResponse struct {
	SearchData []domain.ListingSummary `json:"searchData"`
	SearchTerm string                  `json:"searchTerm"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"pageSize"`
	Strategy   string                  `json:"strategy"`
}
