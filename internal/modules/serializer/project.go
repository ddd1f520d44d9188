package serializer

import "github.com/hossamkoky599/crowdfund/internal/modules/model"

// ProjectDetail is a project plus its average rating, which lives in the
// ratings table and is computed at read time.
type ProjectDetail struct {
	*model.Project
	AvgRating float64 `json:"avg_rating"`
}

func BuildProjectDetail(p *model.Project, avg float64) ProjectDetail {
	return ProjectDetail{Project: p, AvgRating: avg}
}
