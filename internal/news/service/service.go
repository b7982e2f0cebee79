package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"motormarket_backend/internal/news/repository"
	"motormarket_backend/internal/news/transport"
	"motormarket_backend/platform/apperr"
	"motormarket_backend/platform/logger"
	"motormarket_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// ListPublished returns published articles without their bodies.
func (s *Service) ListPublished(ctx context.Context, q transport.ListQuery) (transport.ArticleListResponse, error) {
	return s.list(ctx, q, true)
}

// ListAll includes drafts.
func (s *Service) ListAll(ctx context.Context, q transport.ListQuery) (transport.ArticleListResponse, error) {
	return s.list(ctx, q, false)
}

func (s *Service) list(ctx context.Context, q transport.ListQuery, publishedOnly bool) (transport.ArticleListResponse, error) {
	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		PublishedOnly: publishedOnly,
		Search:        strings.TrimSpace(q.Search),
		Offset:        (page - 1) * pageSize,
		Limit:         pageSize,
	})
	if err != nil {
		return transport.ArticleListResponse{}, err
	}

	out := make([]transport.ArticleResponse, 0, len(items))
	for _, item := range items {
		resp := toResponse(item)
		resp.Body = ""
		out = append(out, resp)
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return transport.ArticleListResponse{Items: out, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

// GetPublished looks an article up by id or slug. Drafts are reported as missing.
func (s *Service) GetPublished(ctx context.Context, idOrSlug string) (transport.ArticleResponse, error) {
	var (
		article repository.Article
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		article, err = s.repo.GetByID(ctx, id)
	} else {
		article, err = s.repo.GetBySlug(ctx, strings.ToLower(idOrSlug))
	}
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	if !article.Published {
		return transport.ArticleResponse{}, apperr.NotFound("article not found")
	}
	return toResponse(article), nil
}

func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req transport.CreateArticleRequest) (transport.ArticleResponse, error) {
	article := repository.Article{
		AuthorID: authorID,
		Title:    sanitize.Text(req.Title),
		Summary:  sanitize.Text(req.Summary),
		Body:     sanitize.Text(req.Body),
	}
	if article.Title == "" {
		return transport.ArticleResponse{}, apperr.Validation("title must contain text")
	}
	s.setPublished(&article, req.Published)
	article.Slug = s.baseSlug(article.Title)

	created, err := s.repo.Create(ctx, article)
	if errors.Is(err, repository.ErrSlugTaken) {
		article.Slug = uniqueSlug(article.Slug)
		created, err = s.repo.Create(ctx, article)
	}
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	s.log.Info("article created", "id", created.ID, "slug", created.Slug, "published", created.Published)
	return toResponse(created), nil
}

// Update edits an article. The slug follows the title.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateArticleRequest) (transport.ArticleResponse, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ArticleResponse{}, err
	}

	titleChanged := false
	if req.Title != nil {
		title := sanitize.Text(*req.Title)
		if title == "" {
			return transport.ArticleResponse{}, apperr.Validation("title must contain text")
		}
		titleChanged = title != article.Title
		article.Title = title
	}
	if req.Summary != nil {
		article.Summary = sanitize.Text(*req.Summary)
	}
	if req.Body != nil {
		article.Body = sanitize.Text(*req.Body)
	}
	if titleChanged {
		article.Slug = s.baseSlug(article.Title)
	}

	updated, err := s.repo.Update(ctx, article)
	if errors.Is(err, repository.ErrSlugTaken) {
		article.Slug = uniqueSlug(article.Slug)
		updated, err = s.repo.Update(ctx, article)
	}
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	s.log.Info("article updated", "id", id)
	return toResponse(updated), nil
}

// SetPublished toggles visibility. The first publication date is kept when
// an article is unpublished and published again.
func (s *Service) SetPublished(ctx context.Context, id uuid.UUID, published bool) (transport.ArticleResponse, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	if article.Published == published {
		return toResponse(article), nil
	}
	s.setPublished(&article, published)

	updated, err := s.repo.Update(ctx, article)
	if err != nil {
		return transport.ArticleResponse{}, err
	}
	s.log.Info("article visibility changed", "id", id, "published", published)
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("article deleted", "id", id)
	return nil
}

func (s *Service) setPublished(article *repository.Article, published bool) {
	article.Published = published
	if published && article.PublishedAt == nil {
		now := s.now().UTC()
		article.PublishedAt = &now
	}
}

func (s *Service) baseSlug(title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "article-" + s.now().UTC().Format("20060102")
	}
	return slug
}

func uniqueSlug(slug string) string {
	return slug + "-" + uuid.NewString()[:8]
}

func toResponse(a repository.Article) transport.ArticleResponse {
	return transport.ArticleResponse{
		ID:          a.ID.String(),
		AuthorID:    a.AuthorID.String(),
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		Body:        a.Body,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
