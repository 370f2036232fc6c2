package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"warbler/models"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return r.db.Create(message).Error
}

func (r *messageRepository) ByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("User").First(&message, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Message{}, id).Error
}

func (r *messageRepository) ByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("user_id = ?", userID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Timeline returns the newest messages written by userID or anyone they
// follow.
func (r *messageRepository) Timeline(userID uint, limit int) ([]models.Message, error) {
	followed := r.db.Model(&models.Follows{}).
		Select("user_being_followed_id").
		Where("user_following_id = ?", userID)

	var messages []models.Message
	err := r.db.Where("user_id IN (?) OR user_id = ?", followed, userID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
