package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/news"
)

type newsRow struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Content      string         `db:"content"`
	AuthorID     string         `db:"author_id"`
	TargetGroups pq.StringArray `db:"target_groups"`
	AuthorName   string         `db:"author_name"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r newsRow) toNews() news.News {
	return news.News{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		AuthorID:     r.AuthorID,
		TargetGroups: r.TargetGroups,
		AuthorName:   r.AuthorName,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const newsSelect = `
SELECT n.id, n.title, n.content, n.author_id, n.target_groups, n.created_at, n.updated_at,
       COALESCE(u.name, '') AS author_name
FROM news n
LEFT JOIN users u ON u.id = n.author_id`

type newsRepository struct {
	db *sqlx.DB
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *sqlx.DB) news.Repository {
	return &newsRepository{db: db}
}

func (repo *newsRepository) CreateNews(ctx context.Context, n news.News) (news.News, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	query := `
INSERT INTO news (id, title, content, author_id, target_groups, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Content, n.AuthorID, pq.StringArray(n.TargetGroups),
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return news.News{}, errors.Wrap(err, "inserting news")
	}

	var row newsRow
	if err = repo.db.GetContext(ctx, &row, newsSelect+` WHERE n.id = $1`, n.ID); err != nil {
		return news.News{}, errors.Wrap(err, "getting news")
	}
	return row.toNews(), nil
}

func (repo *newsRepository) QueryNews(ctx context.Context, group string) ([]news.News, error) {
	query := newsSelect
	var args []interface{}
	if group != "" {
		// no target groups means visible to everyone
		query += ` WHERE cardinality(n.target_groups) = 0 OR $1 = ANY(n.target_groups)`
		args = append(args, group)
	}
	query += ` ORDER BY n.created_at DESC`

	rows := make([]newsRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying news")
	}

	items := make([]news.News, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toNews())
	}
	return items, nil
}
