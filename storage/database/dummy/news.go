package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core/news"
)

type newsRepository struct {
	db    *newsTable
	users *userTable
}

var _ news.Repository = (*newsRepository)(nil) // interface compliance check

func NewNewsRepository(db *DB) news.Repository {
	return &newsRepository{db: db.news, users: db.user}
}

func (repo *newsRepository) CreateNews(_ context.Context, n news.News) (news.News, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	stored := n
	stored.AuthorName = "" // join field, not stored
	repo.db.table[stored.ID] = &stored

	repo.db.seq++
	repo.db.seqs[stored.ID] = repo.db.seq

	n.AuthorName = repo.authorName(n.AuthorID)
	return n, nil
}

func (repo *newsRepository) QueryNews(_ context.Context, group string) ([]news.News, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	items := make([]news.News, 0)
	for _, n := range repo.db.table {
		if group != "" && !targetsGroup(n.TargetGroups, group) {
			continue
		}
		out := *n
		out.AuthorName = repo.authorName(out.AuthorID)
		items = append(items, out)
	}

	// newest first; seq breaks ties for rows created within the same instant
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return repo.db.seqs[items[i].ID] > repo.db.seqs[items[j].ID]
	})
	return items, nil
}

// targetsGroup reports whether an announcement is visible to a group;
// an announcement with no target groups is visible to everyone.
func targetsGroup(targets []string, group string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if t == group {
			return true
		}
	}
	return false
}

func (repo *newsRepository) authorName(authorID string) string {
	repo.users.RLock()
	defer repo.users.RUnlock()
	if usr, ok := repo.users.table[authorID]; ok {
		return usr.Name
	}
	return ""
}
