package repository

import (
	"context"
	"fmt"

	"github.com/tidelens/seascan/internal/models"
)

// InsertRun stores one completed analysis run in the history table.
func (r *Repository) InsertRun(ctx context.Context, run models.RunRecord) error {
	query := `
		INSERT INTO analysis_runs
			(run_id, site, site_key, scene_id, feasibility_score, turbidity_mean, vegetation_proxy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.db.Exec(ctx, query,
		run.ID, run.Site, run.SiteKey, run.SceneID,
		run.FeasibilityScore, run.TurbidityMean, run.VegetationProxy, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis run: %w", err)
	}

	r.log.DebugContext(ctx, "Analysis run recorded", "run", run.ID, "site", run.SiteKey)

	return nil
}

// ListRuns retrieves the most recent analysis runs, newest first, limited to
// the specified count.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	var runs []models.RunRecord
	query := `
		SELECT run_id, site, site_key, scene_id, feasibility_score, turbidity_mean, vegetation_proxy, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var run models.RunRecord
		if errScan := rows.Scan(
			&run.ID, &run.Site, &run.SiteKey, &run.SceneID,
			&run.FeasibilityScore, &run.TurbidityMean, &run.VegetationProxy, &run.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", errScan)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return runs, nil
}

// ClearRuns removes every history row.
func (r *Repository) ClearRuns(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM analysis_runs;`); err != nil {
		return fmt.Errorf("failed to clear analysis runs: %w", err)
	}

	return nil
}
