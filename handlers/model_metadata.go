package handlers

import (
	"net/http"
)

// ModelMetadataHandler serves the model's top feature metrics and the
// external reference links shown next to the prediction card. The values
// are a static snapshot of the training pipeline's output; wiring them to
// the live pipeline is upstream work, not engine work.
type ModelMetadataHandler struct{}

// NewModelMetadataHandler creates a new model metadata handler
func NewModelMetadataHandler() *ModelMetadataHandler {
	return &ModelMetadataHandler{}
}

type featureMetric struct {
	Value      float64 `json:"value"`
	Importance int     `json:"importance"`
}

type featureImportance struct {
	Name       string `json:"name"`
	Importance int    `json:"importance"`
	Metric     string `json:"metric"`
}

type externalLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type modelMetadataResponse struct {
	TopMetrics        map[string]featureMetric  `json:"topMetrics"`
	FeatureImportance []featureImportance       `json:"featureImportance"`
	ExternalLinks     map[string][]externalLink `json:"externalLinks"`
}

var topMetrics = map[string]featureMetric{
	"Close_NVDA_lag3":      {Value: 144.20, Importance: 1},
	"EMA_12_NVDA":          {Value: 143.85, Importance: 2},
	"Close_^GSPC_lag3":     {Value: 5420.50, Importance: 3},
	"ES_High":              {Value: 5440.00, Importance: 4},
	"NVDA_vs_SP500_C":      {Value: 2.66, Importance: 5},
	"NVDA_vs_SP500_C_lag3": {Value: 2.64, Importance: 6},
	"Low_NVDA":             {Value: 143.10, Importance: 7},
	"High_^GSPC":           {Value: 5435.00, Importance: 8},
}

// GetModelMetadata handles GET /api/model/metadata
func (h *ModelMetadataHandler) GetModelMetadata(w http.ResponseWriter, r *http.Request) {
	names := []string{
		"Close_NVDA_lag3",
		"EMA_12_NVDA",
		"Close_^GSPC_lag3",
		"ES_High",
		"NVDA_vs_SP500_C",
		"NVDA_vs_SP500_C_lag3",
		"Low_NVDA",
		"High_^GSPC",
	}

	importance := make([]featureImportance, 0, len(names))
	for i, name := range names {
		importance = append(importance, featureImportance{
			Name:       name,
			Importance: len(names) - i,
			Metric:     name,
		})
	}

	respondJSON(w, http.StatusOK, modelMetadataResponse{
		TopMetrics:        topMetrics,
		FeatureImportance: importance,
		ExternalLinks: map[string][]externalLink{
			"yahooFinance": {
				{Name: "NVDA", URL: "https://finance.yahoo.com/quote/NVDA"},
				{Name: "S&P500 (^GSPC)", URL: "https://finance.yahoo.com/quote/%5EGSPC"},
				{Name: "VIX (^VIX)", URL: "https://finance.yahoo.com/quote/%5EVIX"},
				{Name: "SOXX", URL: "https://finance.yahoo.com/quote/SOXX"},
				{Name: "S&P Futures (ES=F)", URL: "https://finance.yahoo.com/quote/ES%3DF"},
			},
			"macro": {
				{Name: "FRED 10-Year Treasury Yield (DGS10)", URL: "https://fred.stlouisfed.org/series/DGS10"},
			},
			"sentiment": {
				{Name: "CNN Fear & Greed Index", URL: "https://api.alternative.me/fng/?limit=0"},
			},
		},
	})
}
