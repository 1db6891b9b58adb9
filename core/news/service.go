package news

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/user"
)

var ErrNotFound = errors.New("news not found")

type (
	Repository interface {
		CreateNews(ctx context.Context, n News) (News, error)
		// QueryNews returns all announcements, newest first. A non-empty group
		// narrows to announcements targeting that group.
		QueryNews(ctx context.Context, group string) ([]News, error)
	}

	Service interface {
		Create(ctx context.Context, authorID string, nn NewNews) (News, error)
		QueryAll(ctx context.Context) ([]News, error)
		QueryForGroup(ctx context.Context, group string) ([]News, error)
	}

	service struct {
		repo    Repository
		usrSvc  user.Service
		mailSvc core.EmailService
		broker  *core.Broker // optional
		logger  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, mailSvc core.EmailService, broker *core.Broker, logger core.Logger) Service {
	return &service{
		repo:    repo,
		usrSvc:  usrSvc,
		mailSvc: mailSvc,
		broker:  broker,
		logger:  logger,
	}
}

func (svc *service) Create(ctx context.Context, authorID string, nn NewNews) (News, error) {
	now := time.Now().UTC()
	n, err := svc.repo.CreateNews(ctx, News{
		Title:        nn.Title,
		Content:      nn.Content,
		AuthorID:     authorID,
		TargetGroups: nn.TargetGroups,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return News{}, err
	}

	go svc.broadcast(n)

	if svc.broker != nil {
		svc.broker.Publish(core.EventNewsCreated, n)
	}
	return n, nil
}

// broadcast emails the announcement to the students of its target groups.
func (svc *service) broadcast(n News) {
	var recipients []string
	for _, group := range n.TargetGroups {
		roster, err := svc.usrSvc.GroupRoster(context.Background(), group)
		if err != nil {
			svc.logger.Error(fmt.Sprintf("resolving roster for group %q: %v", group, err), err)
			continue
		}
		for _, usr := range roster {
			recipients = append(recipients, usr.Email)
		}
	}
	if len(recipients) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      recipients,
		Subject: n.Title,
		Body:    n.Content,
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]News, error) {
	return svc.repo.QueryNews(ctx, "")
}

func (svc *service) QueryForGroup(ctx context.Context, group string) ([]News, error) {
	return svc.repo.QueryNews(ctx, core.CleanString(group))
}
