package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"rolloutlog.com/internal/domain"
	"rolloutlog.com/internal/model"
)

// Listing is capped; there is no pagination beyond this.
const changeLogListLimit = 3

const maxTicketInfoLength = 1000

// ChangeLogServiceImpl implements domain.ChangeLogService.
type ChangeLogServiceImpl struct {
	db *gorm.DB
}

func NewChangeLogService(db *gorm.DB) *ChangeLogServiceImpl {
	return &ChangeLogServiceImpl{db: db}
}

// Create inserts the detail rows first, then the parent record referencing
// their generated ids. The two inserts are deliberately not wrapped in a
// transaction: a failure between them orphans detail rows, which is accepted
// because details are never read except through their parent.
func (s *ChangeLogServiceImpl) Create(ctx context.Context, actor string, ticketInfo []string) (*model.ChangeLog, error) {
	if len(ticketInfo) == 0 {
		return nil, domain.NewBadRequestError("TicketInfo (array) is required.")
	}
	if actor == "" {
		actor = model.SystemActor
	}

	details := make([]model.ChangeLogDetails, 0, len(ticketInfo))
	for _, ticket := range ticketInfo {
		ticket = strings.TrimSpace(ticket)
		if ticket == "" {
			return nil, domain.NewBadRequestError("TicketInfo entries must not be empty.")
		}
		if len(ticket) > maxTicketInfoLength {
			return nil, domain.NewBadRequestError("TicketInfo entries must be at most 1000 characters.")
		}
		details = append(details, model.ChangeLogDetails{
			TicketInfo:   ticket,
			CommonFields: model.NewCommonFields(actor),
		})
	}

	if err := s.db.WithContext(ctx).Create(&details).Error; err != nil {
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	detailIDs := make([]uint, len(details))
	for i, d := range details {
		detailIDs[i] = d.ID
	}

	changeLog := model.ChangeLog{
		RollOutDate:  time.Now(),
		DetailIDs:    detailIDs,
		Details:      details,
		CommonFields: model.NewCommonFields(actor),
	}

	if err := s.db.WithContext(ctx).Create(&changeLog).Error; err != nil {
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	return &changeLog, nil
}

// List returns the newest non-deleted change logs with their details
// resolved in creation order, capped at three.
func (s *ChangeLogServiceImpl) List(ctx context.Context) ([]model.ChangeLog, error) {
	changeLogs := []model.ChangeLog{}
	err := s.db.WithContext(ctx).
		Where("is_delete = ?", false).
		Order("create_date DESC").
		Limit(changeLogListLimit).
		Find(&changeLogs).Error
	if err != nil {
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	if err := s.resolveDetails(ctx, changeLogs); err != nil {
		return nil, domain.NewInternalError("Internal server error.", err)
	}

	return changeLogs, nil
}

// resolveDetails loads every referenced detail row in one query and attaches
// them to their parents, preserving the stored id order.
func (s *ChangeLogServiceImpl) resolveDetails(ctx context.Context, changeLogs []model.ChangeLog) error {
	var allIDs []uint
	for _, cl := range changeLogs {
		allIDs = append(allIDs, cl.DetailIDs...)
	}
	if len(allIDs) == 0 {
		return nil
	}

	var details []model.ChangeLogDetails
	if err := s.db.WithContext(ctx).Where("id IN ?", allIDs).Find(&details).Error; err != nil {
		return err
	}

	byID := make(map[uint]model.ChangeLogDetails, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	for i := range changeLogs {
		resolved := make([]model.ChangeLogDetails, 0, len(changeLogs[i].DetailIDs))
		for _, id := range changeLogs[i].DetailIDs {
			if d, ok := byID[id]; ok {
				resolved = append(resolved, d)
			}
		}
		changeLogs[i].Details = resolved
	}

	return nil
}

var _ domain.ChangeLogService = (*ChangeLogServiceImpl)(nil)
