package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	domain "github.com/wjlander/choo/internal/organizations/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *service) Create(ctx context.Context, name, slug, contactEmail string) (domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Organization{}, errors.New("organization name is required")
	}
	slug = Slugify(slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return domain.Organization{}, errors.New("organization slug is required")
	}
	contactEmail = strings.TrimSpace(contactEmail)
	if contactEmail != "" {
		if _, err := mail.ParseAddress(contactEmail); err != nil {
			return domain.Organization{}, errors.New("invalid contact email")
		}
	}
	if _, err := s.repo.GetBySlug(ctx, slug); err == nil {
		return domain.Organization{}, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Organization{}, err
	}

	id := uuid.New()
	if err := s.repo.Create(ctx, domain.Organization{ID: id, Name: name, Slug: slug, ContactEmail: contactEmail}); err != nil {
		return domain.Organization{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (domain.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (domain.Organization, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult, error) {
	if opts.PageSize <= 0 || opts.PageSize > 100 {
		opts.PageSize = 20
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Active != -1 && opts.Active != 0 && opts.Active != 1 {
		opts.Active = -1
	}
	if opts.OrganizationID != uuid.Nil {
		return s.listOne(ctx, opts)
	}
	limit := int32(opts.PageSize)
	offset := int32((opts.Page - 1) * opts.PageSize)

	items, total, err := s.repo.List(ctx, opts.Query, opts.Active, limit, offset)
	if err != nil {
		return domain.ListResult{}, err
	}
	totalPages := int(total) / opts.PageSize
	if int(total)%opts.PageSize != 0 {
		totalPages++
	}
	return domain.ListResult{
		Items:      items,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages,
	}, nil
}

// listOne answers a listing scoped to a single organization, applying the
// same query and active filters the repository would.
func (s *service) listOne(ctx context.Context, opts domain.ListOptions) (domain.ListResult, error) {
	res := domain.ListResult{Items: []domain.Organization{}, Page: opts.Page, PageSize: opts.PageSize}
	o, err := s.repo.GetByID(ctx, opts.OrganizationID)
	if errors.Is(err, domain.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return domain.ListResult{}, err
	}
	if opts.Active == 1 && !o.IsActive || opts.Active == 0 && o.IsActive {
		return res, nil
	}
	if q := strings.ToLower(strings.TrimSpace(opts.Query)); q != "" &&
		!strings.Contains(strings.ToLower(o.Name), q) && !strings.Contains(o.Slug, q) {
		return res, nil
	}
	if opts.Page == 1 {
		res.Items = append(res.Items, o)
	}
	res.Total, res.TotalPages = 1, 1
	return res, nil
}
