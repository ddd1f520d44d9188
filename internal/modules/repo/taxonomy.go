package repo

import (
	"context"

	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxonomyRepo normalizes free-text category and tag names into canonical
// rows. Get-or-create goes through ON CONFLICT DO NOTHING plus a re-select,
// so a duplicate-name race converges on the single existing row instead of
// proliferating near-duplicates.
type TaxonomyRepo interface {
	ResolveCategory(ctx context.Context, name string) (*model.Category, error)
	ResolveTags(ctx context.Context, names []string) ([]model.Tag, error)
}

type taxonomyRepo struct{ db *gorm.DB }

func NewTaxonomyRepo(db *gorm.DB) TaxonomyRepo {
	return &taxonomyRepo{db: db}
}

func (r *taxonomyRepo) ResolveCategory(ctx context.Context, name string) (*model.Category, error) {
	cat := model.Category{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&cat).Error
	if err != nil {
		return nil, err
	}
	// DoNothing leaves the struct without an ID when the row already existed.
	var out model.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *taxonomyRepo) ResolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	// Duplicates within one request collapse before touching storage,
	// preserving first-seen order.
	seen := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		unique = append(unique, n)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	rows := make([]model.Tag, 0, len(unique))
	for _, n := range unique {
		rows = append(rows, model.Tag{Name: n})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return nil, err
	}

	var existing []model.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", unique).Find(&existing).Error; err != nil {
		return nil, err
	}

	// Return in request order.
	byName := make(map[string]model.Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}
	out := make([]model.Tag, 0, len(unique))
	for _, n := range unique {
		if t, ok := byName[n]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
