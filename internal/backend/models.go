package backend

// ForecastPoint is one hour of the 24-hour fusion forecast.
type ForecastPoint struct {
	Timestamp      string   `json:"timestamp"`
	PredictedPower *float64 `json:"predicted_power"`
}

// HistoricalPoint mirrors one row of the backend's cleaned meter data.
// Numeric fields are pointers: the backend emits null for gaps in the data.
type HistoricalPoint struct {
	Time        string   `json:"_time"`
	Power       *float64 `json:"Phase3_power"`
	Voltage     *float64 `json:"Phase3_voltage"`
	Frequency   *float64 `json:"Phase3_frequency"`
	PowerFactor *float64 `json:"Phase3_pf"`
}

type Alert struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

type AlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

// ModelPerformance is the backend's static accuracy snapshot.
type ModelPerformance struct {
	XGBoostMAPE  *float64 `json:"xgboost_mape"`
	LSTMMAPE     *float64 `json:"lstm_mape"`
	FusionMAPE   *float64 `json:"fusion_mape"`
	MAPEUnit     string   `json:"mape_unit"`
	PrimaryModel string   `json:"primary_model"`
	LastTrained  string   `json:"last_trained"`
}
