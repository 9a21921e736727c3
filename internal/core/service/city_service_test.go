package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

func TestCityService_ListDefaults(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"data":{"data":[{"id":"1","nom":"Kaya"}],"pagination":{"current_page":1,"last_page":1,"per_page":1000,"total":1}}}`
	}}
	resp, err := NewCityService(api).List(context.Background(), ports.CityQuery{Search: "ka"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	q := api.lastCall().Query
	if q.Get("per_page") != "1000" || q.Get("search") != "ka" || q.Has("page") {
		t.Fatalf("unexpected query: %v", q)
	}
	if len(resp.Data.Data) != 1 || resp.Data.Data[0].Nom != "Kaya" {
		t.Fatalf("unexpected page: %+v", resp.Data)
	}
}

func TestCityService_AllWalksPages(t *testing.T) {
	api := &stubAPI{respond: func(call ports.APIRequest) (int, any) {
		page, _ := strconv.Atoi(call.Query.Get("page"))
		return http.StatusOK, domain.Envelope[domain.CityPage]{
			Success: true,
			Data: &domain.CityPage{
				Data:       []domain.Ville{{ID: strconv.Itoa(page), Nom: fmt.Sprintf("Ville %d", page)}},
				Pagination: domain.Pagination{CurrentPage: page, LastPage: 3, PerPage: 1, Total: 3},
			},
		}
	}}

	cities, err := NewCityService(api).All(context.Background(), "")
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(cities) != 3 || cities[2].Nom != "Ville 3" {
		t.Fatalf("unexpected cities: %+v", cities)
	}
	if api.callCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", api.callCount())
	}
}

func TestCityService_AllStopsOnEmptyPage(t *testing.T) {
	api := &stubAPI{respond: func(ports.APIRequest) (int, any) {
		return http.StatusOK, `{"success":true,"data":{"data":[],"pagination":{"current_page":1,"last_page":9}}}`
	}}
	cities, err := NewCityService(api).All(context.Background(), "zzz")
	if err != nil || len(cities) != 0 || api.callCount() != 1 {
		t.Fatalf("unexpected result: %v %v calls=%d", cities, err, api.callCount())
	}
}
