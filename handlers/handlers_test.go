package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VLP-TECH/camara-vlc/config"
	"github.com/VLP-TECH/camara-vlc/database"
	"github.com/VLP-TECH/camara-vlc/dbtest"
	"github.com/VLP-TECH/camara-vlc/models"
)

// newServer seeds two dimensions with one result each plus an orphan result.
func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	f := dbtest.NewFixture(t)

	human := f.Dimension("Capital humano", 60)
	talent := f.Subdimension(human, "Talento profesional TIC")
	specialists := f.Indicator(talent, "Especialistas TIC", "Alta")
	comp := f.Component(specialists, "Especialistas TIC ocupados", models.RoleNumerator)

	infra := f.Dimension("Infraestructura digital", 40)
	access := f.Subdimension(infra, "Acceso a infraestructuras")
	broadband := f.Indicator(access, "Banda ancha fija", "Media")

	row := dbtest.Row{Value: "80", Year: 2023, Country: "España", Province: "Valencia", Sector: "Industria", Size: "Pyme"}
	f.ResultViaComponents(row, comp)
	row.Value = "90"
	f.ResultViaRaw(row, f.ProcessedRaw(broadband))
	f.Orphan(dbtest.Row{Value: "10", Year: 2021, Country: "Portugal"})

	prev := database.GetDB()
	database.SetDB(f.DB)
	t.Cleanup(func() { database.SetDB(prev) })

	return NewRouter(config.ServerConfig{Mode: gin.TestMode, CORSOrigins: []string{"http://localhost:5173"}})
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	r := newServer(t)
	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetResults(t *testing.T) {
	r := newServer(t)

	t.Run("filtered", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/resultados?pais=Espa%C3%B1a&periodo=2023", "")
		require.Equal(t, http.StatusOK, w.Code)

		var rows []map[string]interface{}
		decode(t, w, &rows)
		require.Len(t, rows, 2)
		assert.Equal(t, "Especialistas TIC", rows[0]["nombre_indicador"])
		assert.Equal(t, 80.0, rows[0]["resultado"])
		assert.Equal(t, "2023-01-01", rows[0]["periodo"])
		assert.Equal(t, "Banda ancha fija", rows[1]["nombre_indicador"])
	})

	t.Run("unresolved results keep a placeholder name", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/resultados?pais=Portugal", "")
		require.Equal(t, http.StatusOK, w.Code)
		var rows []map[string]interface{}
		decode(t, w, &rows)
		require.Len(t, rows, 1)
		assert.Equal(t, "Unknown Indicator", rows[0]["nombre_indicador"])
	})

	t.Run("empty page is an empty list", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/resultados?page=5&per_page=10", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("invalid paging", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/resultados?per_page=6000", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed period", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/resultados?periodo=dos-mil", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCalculateScore(t *testing.T) {
	r := newServer(t)

	t.Run("breakdown", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/brainnova-score",
			`{"pais":"España","periodo":2023,"sector":"Industria","tamano_empresa":"Pyme","provincia":"Valencia"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ScoreResponse
		decode(t, w, &resp)
		assert.Equal(t, 84.0, resp.GlobalScore)
		assert.Equal(t, "España", resp.Pais)
		assert.Equal(t, 2023, resp.Periodo)
		require.NotNil(t, resp.Provincia)
		require.Len(t, resp.Desglose, 2)

		assert.Equal(t, "Capital humano", resp.Desglose[0].Dimension)
		assert.Equal(t, 80.0, resp.Desglose[0].Score)
		assert.Equal(t, 60.0, resp.Desglose[0].Peso)
		assert.Equal(t, 48.0, resp.Desglose[0].Contribucion)
		require.Len(t, resp.Desglose[0].Subdimensiones, 1)
		assert.Equal(t, 1, resp.Desglose[0].Subdimensiones[0].Resultados)

		assert.Equal(t, "Infraestructura digital", resp.Desglose[1].Dimension)
		assert.Equal(t, 36.0, resp.Desglose[1].Contribucion)
	})

	t.Run("no data is not found", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/brainnova-score",
			`{"pais":"France","periodo":1999,"sector":"X","tamano_empresa":"Y"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"`+noDataMessage+`"}`, w.Body.String())
	})

	t.Run("incomplete selection", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/brainnova-score", `{"pais":"España","periodo":2023}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/v1/brainnova-score", `{"pais":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAvailableIndicators(t *testing.T) {
	r := newServer(t)
	w := do(t, r, http.MethodGet, "/api/v1/indicadores-disponibles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Banda ancha fija","Especialistas TIC"]`, w.Body.String())
}

func TestGetAvailableFilters(t *testing.T) {
	r := newServer(t)
	w := do(t, r, http.MethodGet, "/api/v1/filtros-disponibles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"paises": ["España", "Portugal"],
		"periodos": [2021, 2023],
		"sectores": ["Industria"],
		"tamano_empresa": ["Pyme"],
		"provincias": ["Valencia"]
	}`, w.Body.String())
}

func TestGetGlobalFilters(t *testing.T) {
	r := newServer(t)

	t.Run("by country", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/filtros-globales?pais=Portugal", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"paises": ["España", "Portugal"],
			"provincias": [],
			"sectores": [],
			"tamanos_empresa": [],
			"anios": [2021]
		}`, w.Body.String())
	})

	t.Run("by indicator", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/v1/filtros-globales?nombre_indicador=Especialistas%20TIC&tamano=Pyme", "")
		require.Equal(t, http.StatusOK, w.Code)
		var facets map[string][]interface{}
		decode(t, w, &facets)
		assert.Equal(t, []interface{}{"España"}, facets["paises"])
		assert.Equal(t, []interface{}{2023.0}, facets["anios"])
	})
}

func TestGetStats(t *testing.T) {
	r := newServer(t)
	w := do(t, r, http.MethodGet, "/api/v1/estadisticas", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_resultados": 3,
		"resultados_sin_indicador": 1,
		"indicadores_con_datos": 2,
		"paises": 2,
		"dimensiones": 2,
		"ultimo_periodo": 2023
	}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := newServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resultados", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
