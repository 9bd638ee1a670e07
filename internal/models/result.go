package models

import "time"

// AnalysisResult is the scorecard produced by one analysis run. All metric
// fields are scalar and immutable once produced; the preview at PreviewPath is
// the only filesystem side effect of a run.
type AnalysisResult struct {
	RunID   string `json:"run_id"`
	Site    string `json:"site"`
	SiteKey string `json:"site_key"`
	SceneID string `json:"scene_id"`

	PreviewPath      string  `json:"preview_path"`
	FeasibilityScore float64 `json:"feasibility_score"`
	TurbidityMean    float64 `json:"turbidity_mean"`
	VegetationProxy  float64 `json:"vegetation_proxy"`
	DepthEstimate    float64 `json:"depth_estimate"`
	WindSpeed        float64 `json:"wind_speed"`
	DistanceToShore  float64 `json:"distance_to_shore"`

	CreatedAt time.Time `json:"created_at"`
}

// RunRecord is the history row kept for the site comparison table.
type RunRecord struct {
	ID               string    `json:"id"`
	Site             string    `json:"site"`
	SiteKey          string    `json:"site_key"`
	SceneID          string    `json:"scene_id"`
	FeasibilityScore float64   `json:"feasibility_score"`
	TurbidityMean    float64   `json:"turbidity_mean"`
	VegetationProxy  float64   `json:"vegetation_proxy"`
	CreatedAt        time.Time `json:"created_at"`
}
