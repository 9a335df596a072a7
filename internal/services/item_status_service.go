package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

// ItemStatusService runs the production board: which garment is with which
// tailor and how far along it is.
type ItemStatusService struct {
	Repo    *repositories.ItemStatusRepository
	Tailors *repositories.TailorCounterRepository
	now     func() time.Time
}

func NewItemStatusService(repo *repositories.ItemStatusRepository, tailors *repositories.TailorCounterRepository) *ItemStatusService {
	return &ItemStatusService{Repo: repo, Tailors: tailors, now: timeutil.Now}
}

func (s *ItemStatusService) CreateEntry(ctx context.Context, req *models.CreateItemStatusRequest) (*models.ItemStatusEntry, error) {
	verr := &billing.ValidationError{}
	if strings.TrimSpace(req.ItemID) == "" {
		verr.Add("item_id", "item is required")
	}
	status := req.Status
	if status == "" {
		status = models.ItemStatusInProgress
	}
	if !status.Valid() {
		verr.Add("status", fmt.Sprintf("unknown status %q", status))
	}
	date, err := timeutil.ParseDateOr(req.Date, timeutil.StartOfDay(s.now()))
	if err != nil {
		verr.Add("date", err.Error())
	}
	if err := s.checkTailor(ctx, verr, req.TailorCounterID); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	entry := &models.ItemStatusEntry{
		Date:            date,
		ItemID:          strings.TrimSpace(req.ItemID),
		TailorCounterID: normalizeTailor(req.TailorCounterID),
		Status:          status,
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns the board ordered by date, oldest first.
func (s *ItemStatusService) ListEntries(ctx context.Context) ([]*models.ItemStatusEntry, error) {
	entries, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

// UpdateEntry changes the status and the assigned tailor. An empty status
// keeps the current one; a nil or empty tailor id unassigns.
func (s *ItemStatusService) UpdateEntry(ctx context.Context, id string, req *models.UpdateItemStatusRequest) (*models.ItemStatusEntry, error) {
	entry, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &billing.ValidationError{}
	if req.Status != "" && !req.Status.Valid() {
		verr.Add("status", fmt.Sprintf("unknown status %q", req.Status))
	}
	if err := s.checkTailor(ctx, verr, req.TailorCounterID); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if req.Status != "" {
		entry.Status = req.Status
	}
	entry.TailorCounterID = normalizeTailor(req.TailorCounterID)
	if err := s.Repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ItemStatusService) checkTailor(ctx context.Context, verr *billing.ValidationError, id *string) error {
	tid := normalizeTailor(id)
	if tid == nil {
		return nil
	}
	if _, err := s.Tailors.Get(ctx, *tid); err != nil {
		if !store.IsNotFound(err) {
			return err
		}
		verr.Add("tailor_counter_id", "tailor counter not found")
	}
	return nil
}

func normalizeTailor(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}
