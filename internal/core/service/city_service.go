package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

const (
	defaultCityPerPage = 1000
	maxCityPages       = 500
)

// CityService wraps the /villes resource.
type CityService struct {
	api ports.APIClient
}

func NewCityService(api ports.APIClient) *CityService {
	return &CityService{api: api}
}

// List fetches one page. PerPage defaults to 1000 so most listings fit in a
// single call.
func (s *CityService) List(ctx context.Context, q ports.CityQuery) (*domain.Envelope[domain.CityPage], error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultCityPerPage
	}
	params.Set("per_page", strconv.Itoa(perPage))
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var resp domain.Envelope[domain.CityPage]
	if err := s.api.Do(ctx, ports.APIRequest{Method: http.MethodGet, Path: "/villes", Query: params}, &resp); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return &resp, nil
}

// All walks every page and concatenates the results.
func (s *CityService) All(ctx context.Context, search string) ([]domain.Ville, error) {
	var out []domain.Ville
	for page := 1; page <= maxCityPages; page++ {
		resp, err := s.List(ctx, ports.CityQuery{Page: page, Search: search})
		if err != nil {
			return nil, err
		}
		if resp.Data == nil {
			return out, nil
		}
		out = append(out, resp.Data.Data...)

		p := resp.Data.Pagination
		if len(resp.Data.Data) == 0 || p.CurrentPage >= p.LastPage {
			return out, nil
		}
	}
	return out, nil
}
