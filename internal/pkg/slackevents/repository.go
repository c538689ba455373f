package slackevents

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/primoteam/primotracker/app/models"
)

// gormRepository is the production Repository backed by the shared GORM
// connection.
type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a slack event repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) IsEventProcessed(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProcessedSlackEvent{}).Where("event_id = ?", eventID).Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) MarkEventProcessed(eventID string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&models.ProcessedSlackEvent{EventID: eventID}).Error
}

func (r *gormRepository) RepBySlackUserID(slackUserID string) (*models.Rep, error) {
	if slackUserID == "" {
		return nil, nil
	}
	var rep models.Rep
	err := r.db.Where("slack_user_id = ?", slackUserID).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *gormRepository) CreateEntryWithLink(entry *models.SalesEntry, link *models.SlackMessageLink) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "channel"},
				{Name: "message_ts"},
			},
			DoNothing: true,
		}).Create(link)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// another delivery already linked this message
			return nil
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		created = true
		return tx.Model(link).Update("entry_id", entry.ID).Error
	})
	return created, err
}

func (r *gormRepository) LinkByMessage(channel, messageTS string) (*models.SlackMessageLink, error) {
	if channel == "" || messageTS == "" {
		return nil, nil
	}
	var link models.SlackMessageLink
	err := r.db.Where("channel = ? AND message_ts = ?", channel, messageTS).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *gormRepository) DeleteEntryAndLink(link *models.SlackMessageLink) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.SalesEntry{}, link.EntryID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SlackMessageLink{}, link.ID).Error
	})
}

func (r *gormRepository) CreateLink(link *models.SlackMessageLink) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "channel"},
			{Name: "message_ts"},
		},
		DoNothing: true,
	}).Create(link).Error
}

// RecentEvents lists the newest processed event markers for the admin page.
func RecentEvents(db *gorm.DB, limit int) ([]models.ProcessedSlackEvent, error) {
	var events []models.ProcessedSlackEvent
	err := db.Order("processed_at DESC").Limit(limit).Find(&events).Error
	return events, err
}
