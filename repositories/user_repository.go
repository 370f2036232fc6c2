package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/auth"
	"warbler/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Signup hashes the password and inserts the user inside a transaction.
// A username or email collision rolls the transaction back and surfaces
// as ErrDuplicateUser.
func (r *userRepository) Signup(username, email, password, imageURL string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ImageURL:     imageURL,
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate looks the user up by username and verifies the password.
// Unknown username and wrong password both return ErrInvalidCredentials
// so callers cannot tell which field was wrong.
func (r *userRepository) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (r *userRepository) ByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Follow creates the directed edge "follower follows followed". The
// composite primary key rejects a duplicate edge for the same pair.
func (r *userRepository) Follow(followerID, followedID uint) error {
	edge := models.Follows{
		UserBeingFollowedID: followedID,
		UserFollowingID:     followerID,
	}
	return r.db.Create(&edge).Error
}

func (r *userRepository) Unfollow(followerID, followedID uint) error {
	return r.db.
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Delete(&models.Follows{}).Error
}

// IsFollowing reports whether follower has an edge to followed.
func (r *userRepository) IsFollowing(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follows{}).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether other has an edge to user.
func (r *userRepository) IsFollowedBy(userID, otherID uint) (bool, error) {
	return r.IsFollowing(otherID, userID)
}

// Followers returns the users following userID.
func (r *userRepository) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.user_following_id = users.id").
		Where("follows.user_being_followed_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Following returns the users userID follows.
func (r *userRepository) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN follows ON follows.user_being_followed_id = users.id").
		Where("follows.user_following_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Delete removes the user and everything it owns or touches: messages,
// follow edges in both directions, then the row itself. All or nothing.
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("user_being_followed_id = ? OR user_following_id = ?", id, id).
			Delete(&models.Follows{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
