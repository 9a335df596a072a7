package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrganizationDefaults seed the organization the first time it is read.
type OrganizationDefaults struct {
	Name    string
	Phones  []string
	Emails  []string
	Address string
}

type OrganizationService struct {
	Repo     *repositories.OrganizationRepository
	Defaults OrganizationDefaults
}

func NewOrganizationService(repo *repositories.OrganizationRepository, defaults OrganizationDefaults) *OrganizationService {
	return &OrganizationService{Repo: repo, Defaults: defaults}
}

// GetOrganization returns the organization, creating it from the defaults on
// first use.
func (s *OrganizationService) GetOrganization(ctx context.Context) (*models.Organization, error) {
	org, err := s.Repo.Get(ctx)
	if err == nil {
		return org, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}

	org = &models.Organization{
		Name:    s.Defaults.Name,
		Phones:  append([]string{}, s.Defaults.Phones...),
		Emails:  append([]string{}, s.Defaults.Emails...),
		Address: s.Defaults.Address,
	}
	if err := s.Repo.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// UpdateOrganization replaces the organization details. Blank phone and email
// rows are dropped before validation.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, req *models.UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	phones := nonBlank(req.Phones)
	emails := nonBlank(req.Emails)

	verr := &billing.ValidationError{}
	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "organization name is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		verr.Add("address", "address is required")
	}
	if len(phones) == 0 {
		verr.Add("phones", "at least one phone number is required")
	}
	if len(emails) == 0 {
		verr.Add("emails", "at least one email address is required")
	}
	for i, e := range emails {
		if !emailPattern.MatchString(e) {
			verr.Add(fmt.Sprintf("emails[%d]", i), fmt.Sprintf("invalid email format: %s", e))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	org.Name = strings.TrimSpace(req.Name)
	org.Address = strings.TrimSpace(req.Address)
	org.Phones = phones
	org.Emails = emails
	org.Logo = req.Logo
	if err := s.Repo.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
