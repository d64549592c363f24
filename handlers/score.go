package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VLP-TECH/camara-vlc/scoring"
)

type ScoreRequest struct {
	Pais          string `json:"pais"`
	Periodo       int    `json:"periodo"`
	Sector        string `json:"sector"`
	TamanoEmpresa string `json:"tamano_empresa"`
	Provincia     string `json:"provincia"`
}

type SubdimensionOutput struct {
	Subdimension string  `json:"subdimension"`
	Score        float64 `json:"score_subdimension"`
	Resultados   int     `json:"resultados"`
}

type DimensionOutput struct {
	Dimension      string               `json:"dimension"`
	Score          float64              `json:"score_dimension"`
	Peso           float64              `json:"peso_configurado"`
	Contribucion   float64              `json:"contribucion_al_global"`
	Subdimensiones []SubdimensionOutput `json:"subdimensiones"`
}

type ScoreResponse struct {
	GlobalScore   float64           `json:"brainnova_global_score"`
	Pais          string            `json:"pais"`
	Periodo       int               `json:"periodo"`
	Sector        string            `json:"sector"`
	TamanoEmpresa string            `json:"tamano_empresa"`
	Provincia     *string           `json:"provincia,omitempty"`
	Desglose      []DimensionOutput `json:"desglose_por_dimension"`
}

func CalculateScore(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sel := scoring.Selection{
		Country:     req.Pais,
		Year:        req.Periodo,
		Sector:      req.Sector,
		CompanySize: req.TamanoEmpresa,
		Province:    req.Provincia,
	}

	var score *scoring.Score
	err := inTx(c, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		score, err = scoring.Calculate(ctx, tx, sel)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newScoreResponse(score))
}

func newScoreResponse(s *scoring.Score) ScoreResponse {
	resp := ScoreResponse{
		GlobalScore:   s.Global.InexactFloat64(),
		Pais:          s.Selection.Country,
		Periodo:       s.Selection.Year,
		Sector:        s.Selection.Sector,
		TamanoEmpresa: s.Selection.CompanySize,
		Desglose:      make([]DimensionOutput, 0, len(s.Dimensions)),
	}
	if s.Selection.Province != "" {
		resp.Provincia = &s.Selection.Province
	}
	for _, d := range s.Dimensions {
		out := DimensionOutput{
			Dimension:      d.Name,
			Score:          d.Score.InexactFloat64(),
			Peso:           d.Weight.InexactFloat64(),
			Contribucion:   d.Contribution.InexactFloat64(),
			Subdimensiones: make([]SubdimensionOutput, 0, len(d.Subdimensions)),
		}
		for _, sd := range d.Subdimensions {
			out.Subdimensiones = append(out.Subdimensiones, SubdimensionOutput{
				Subdimension: sd.Name,
				Score:        sd.Score.InexactFloat64(),
				Resultados:   sd.Count,
			})
		}
		resp.Desglose = append(resp.Desglose, out)
	}
	return resp
}
