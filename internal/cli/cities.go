package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/infrastructure/navigation"
)

func newCitiesCommand(rt *runtime) *cobra.Command {
	var q ports.CityQuery
	var all bool
	cmd := &cobra.Command{
		Use:         "cities",
		Aliases:     []string{"villes"},
		Short:       "List cities",
		Annotations: at(navigation.CitiesPath),
		Args:        cobra.NoArgs,
		RunE: rt.wrap(func(cmd *cobra.Command, _ []string) error {
			if all {
				cities, err := rt.app.Cities.All(cmd.Context(), q.Search)
				if err != nil {
					return err
				}
				return rt.print.print(cities, func(w io.Writer) { citiesTable(w, cities) })
			}

			resp, err := rt.app.Cities.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			page := domain.CityPage{}
			if resp.Data != nil {
				page = *resp.Data
			}
			return rt.print.print(page, func(w io.Writer) {
				citiesTable(w, page.Data)
				p := page.Pagination
				fmt.Fprintf(w, "\nPage %d/%d\t%d villes\n", p.CurrentPage, p.LastPage, p.Total)
			})
		}),
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "page size (server default when 0)")
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by name")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")
	return cmd
}
