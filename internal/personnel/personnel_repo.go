package personnel

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=personnel_repo.go -destination=mock/personnel_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Personnel) error
	FindAll(ctx context.Context, status string) ([]Personnel, error)
	FindByID(ctx context.Context, id string) (*Personnel, error)
	FindActive(ctx context.Context) ([]Personnel, error)
	Update(ctx context.Context, p *Personnel) error
	Delete(ctx context.Context, id string) error
	EmailExists(ctx context.Context, email string, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm session to tx, the same way gorm's own
// Begin does; every statement issued through the returned repository
// joins the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, status string) ([]Personnel, error) {
	db := r.db.WithContext(ctx).Order("full_name ASC")
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var people []Personnel
	err := db.Find(&people).Error
	return people, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Personnel, error) {
	var p Personnel
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindActive(ctx context.Context) ([]Personnel, error) {
	var people []Personnel
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("date_hired ASC").
		Find(&people).Error
	return people, err
}

func (r *repository) Update(ctx context.Context, p *Personnel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Personnel{}, "id = ?", id).Error
}

func (r *repository) EmailExists(ctx context.Context, email string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Personnel{}).
		Where("email = ?", email)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
