package filters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VLP-TECH/camara-vlc/dbtest"
	"github.com/VLP-TECH/camara-vlc/filters"
	"github.com/VLP-TECH/camara-vlc/models"
)

// seed builds results for two indicators across two countries:
//
//	Teletrabajo  España  2023 Industria   Pyme   Valencia   (component path)
//	Teletrabajo  España  2024 Servicios   Grande <nil>      (component path)
//	Teletrabajo  Francia 2023 Agricultura Pyme   <nil>      (component path)
//	Banda ancha  España  2022 Comercio    Micro  Madrid     (raw path)
//	<unknown>    España  2021 Turismo     <nil>  <nil>
func seed(t *testing.T) *dbtest.Fixture {
	f := dbtest.NewFixture(t)
	dim := f.Dimension("Capital humano", 20)
	sub := f.Subdimension(dim, "Talento profesional TIC")
	telework := f.Indicator(sub, "Teletrabajo", "Alta")
	broadband := f.Indicator(sub, "Banda ancha", "Media")
	comp := f.Component(telework, "Empresas con teletrabajo", models.RoleNumerator)

	f.ResultViaComponents(dbtest.Row{Value: "10", Year: 2023, Country: "España", Sector: "Industria", Size: "Pyme", Province: "Valencia"}, comp)
	f.ResultViaComponents(dbtest.Row{Value: "20", Year: 2024, Country: "España", Sector: "Servicios", Size: "Grande"}, comp)
	f.ResultViaComponents(dbtest.Row{Value: "30", Year: 2023, Country: "Francia", Sector: "Agricultura", Size: "Pyme"}, comp)
	f.ResultViaRaw(dbtest.Row{Value: "40", Year: 2022, Country: "España", Sector: "Comercio", Size: "Micro", Province: "Madrid"}, f.ProcessedRaw(broadband))
	f.Orphan(dbtest.Row{Value: "50", Year: 2021, Country: "España", Sector: "Turismo"})
	return f
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()
	f := seed(t)

	tests := []struct {
		name string
		sel  filters.Selection
		want filters.Facets
	}{
		{
			name: "empty selection",
			sel:  filters.Selection{},
			want: filters.Facets{
				Countries:    []string{"España", "Francia"},
				Provinces:    []string{"Madrid", "Valencia"},
				Sectors:      []string{"Agricultura", "Comercio", "Industria", "Servicios", "Turismo"},
				CompanySizes: []string{"Grande", "Micro", "Pyme"},
				Years:        []int{2024, 2023, 2022, 2021},
			},
		},
		{
			name: "indicator and country",
			sel:  filters.Selection{IndicatorName: "Teletrabajo", Country: "España"},
			want: filters.Facets{
				// Countries ignore the country constraint itself.
				Countries:    []string{"España", "Francia"},
				Provinces:    []string{"Valencia"},
				Sectors:      []string{"Industria", "Servicios"},
				CompanySizes: []string{"Grande", "Pyme"},
				Years:        []int{2024, 2023},
			},
		},
		{
			name: "year constrains the other facets",
			sel:  filters.Selection{Year: 2023},
			want: filters.Facets{
				Countries:    []string{"España", "Francia"},
				Provinces:    []string{"Valencia"},
				Sectors:      []string{"Agricultura", "Industria"},
				CompanySizes: []string{"Pyme"},
				Years:        []int{2024, 2023, 2022, 2021},
			},
		},
		{
			name: "raw path indicator",
			sel:  filters.Selection{IndicatorName: "Banda ancha", Sector: "Comercio"},
			want: filters.Facets{
				Countries:    []string{"España"},
				Provinces:    []string{"Madrid"},
				Sectors:      []string{"Comercio"},
				CompanySizes: []string{"Micro"},
				Years:        []int{2022},
			},
		},
		{
			name: "province",
			sel:  filters.Selection{Province: "Madrid"},
			want: filters.Facets{
				Countries:    []string{"España"},
				Provinces:    []string{"Madrid", "Valencia"},
				Sectors:      []string{"Comercio"},
				CompanySizes: []string{"Micro"},
				Years:        []int{2022},
			},
		},
		{
			name: "no match",
			sel:  filters.Selection{IndicatorName: "Inexistente"},
			want: filters.Facets{
				Countries:    []string{},
				Provinces:    []string{},
				Sectors:      []string{},
				CompanySizes: []string{},
				Years:        []int{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filters.Available(ctx, f.DB, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestAvailableSectorsNeverLeakAcrossIndicators(t *testing.T) {
	f := seed(t)

	got, err := filters.Available(context.Background(), f.DB, filters.Selection{IndicatorName: "Teletrabajo", Country: "España"})
	require.NoError(t, err)

	assert.NotContains(t, got.Sectors, "Agricultura", "sector only present in Francia")
	assert.NotContains(t, got.Sectors, "Comercio", "sector only present for Banda ancha")
	assert.NotContains(t, got.Sectors, "Turismo", "sector only present for unresolved results")
}

func TestUnconditional(t *testing.T) {
	f := seed(t)

	got, err := filters.Unconditional(context.Background(), f.DB)
	require.NoError(t, err)

	assert.Equal(t, []string{"España", "Francia"}, got.Countries)
	assert.Equal(t, []int{2021, 2022, 2023, 2024}, got.Periods)
	assert.Equal(t, []string{"Agricultura", "Comercio", "Industria", "Servicios", "Turismo"}, got.Sectors)
	assert.Equal(t, []string{"Grande", "Micro", "Pyme"}, got.CompanySizes)
	assert.Equal(t, []string{"Madrid", "Valencia"}, got.Provinces)
}
