package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type AnalyticsRepository interface {
	// RecordPageView stores the view and bumps the page counter together.
	RecordPageView(ctx context.Context, view *db_models.PageView) error
	// RecordLinkClick stores the click and bumps the link counter together.
	RecordLinkClick(ctx context.Context, click *db_models.LinkClick) error

	CountViews(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) (int64, error)
	CountClicks(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) (int64, error)
	// ViewsByDay and ClicksByDay count events per UTC day, oldest first, skipping empty days.
	ViewsByDay(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) ([]DayCountRow, error)
	ClicksByDay(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) ([]DayCountRow, error)

	TopLinks(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]TopLinkRow, error)
	TopReferrers(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]GroupCountRow, error)
	TopCountries(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]GroupCountRow, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

type TopLinkRow struct {
	ID     uuid.UUID `gorm:"column:id"`
	Title  string    `gorm:"column:title"`
	URL    string    `gorm:"column:url"`
	Clicks int64     `gorm:"column:clicks"`
}

type DayCountRow struct {
	Day   string `gorm:"column:day"`
	Count int64  `gorm:"column:count"`
}

type GroupCountRow struct {
	Label string `gorm:"column:label"`
	Count int64  `gorm:"column:count"`
}

func (r *analyticsRepository) RecordPageView(ctx context.Context, view *db_models.PageView) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(view).Error; err != nil {
			return err
		}
		return tx.Model(&db_models.Page{}).
			Where("id = ?", view.PageID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	})
}

func (r *analyticsRepository) RecordLinkClick(ctx context.Context, click *db_models.LinkClick) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(click).Error; err != nil {
			return err
		}
		return tx.Model(&db_models.Link{}).
			Where("id = ?", click.LinkID).
			UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error
	})
}

// window scopes an event table to the given pages and, when set, a lower time bound.
func window(table string, pageIDs []uuid.UUID, since *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where(table+".page_id IN ?", pageIDs)
		if since != nil {
			db = db.Where(table+".created_at >= ?", since.UTC())
		}
		return db
	}
}

func (r *analyticsRepository) count(ctx context.Context, model interface{}, table string, pageIDs []uuid.UUID, since *time.Time) (int64, error) {
	if len(pageIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(model).
		Scopes(window(table, pageIDs, since)).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountViews(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) (int64, error) {
	return r.count(ctx, &db_models.PageView{}, "page_views", pageIDs, since)
}

func (r *analyticsRepository) CountClicks(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) (int64, error) {
	return r.count(ctx, &db_models.LinkClick{}, "link_clicks", pageIDs, since)
}

// dayExpr renders column as a UTC YYYY-MM-DD day in the current dialect.
func (r *analyticsRepository) dayExpr(column string) string {
	if r.db.Dialector.Name() == "postgres" {
		return "to_char(" + column + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}
	return "strftime('%Y-%m-%d', " + column + ")"
}

func (r *analyticsRepository) byDay(ctx context.Context, table string, pageIDs []uuid.UUID, since *time.Time) ([]DayCountRow, error) {
	rows := []DayCountRow{}
	if len(pageIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select(r.dayExpr(table+".created_at") + " AS day, COUNT(*) AS count").
		Scopes(window(table, pageIDs, since)).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) ViewsByDay(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) ([]DayCountRow, error) {
	return r.byDay(ctx, "page_views", pageIDs, since)
}

func (r *analyticsRepository) ClicksByDay(ctx context.Context, pageIDs []uuid.UUID, since *time.Time) ([]DayCountRow, error) {
	return r.byDay(ctx, "link_clicks", pageIDs, since)
}

func (r *analyticsRepository) TopLinks(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]TopLinkRow, error) {
	rows := []TopLinkRow{}
	if len(pageIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("link_clicks").
		Select("links.id AS id, links.title AS title, links.url AS url, COUNT(*) AS clicks").
		Joins("JOIN links ON links.id = link_clicks.link_id").
		Scopes(window("link_clicks", pageIDs, since)).
		Group("links.id, links.title, links.url").
		Order("clicks DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) groupCount(ctx context.Context, column string, pageIDs []uuid.UUID, since *time.Time, limit int) ([]GroupCountRow, error) {
	rows := []GroupCountRow{}
	if len(pageIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("page_views").
		Select(column + " AS label, COUNT(*) AS count").
		Scopes(window("page_views", pageIDs, since)).
		Group(column).
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *analyticsRepository) TopReferrers(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]GroupCountRow, error) {
	return r.groupCount(ctx, "referrer", pageIDs, since, limit)
}

func (r *analyticsRepository) TopCountries(ctx context.Context, pageIDs []uuid.UUID, since *time.Time, limit int) ([]GroupCountRow, error) {
	return r.groupCount(ctx, "country", pageIDs, since, limit)
}
