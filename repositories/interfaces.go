package repositories

import "warbler/models"

type UserRepository interface {
	Signup(username, email, password, imageURL string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	ByID(id uint) (*models.User, error)
	ByUsername(username string) (*models.User, error)
	Follow(followerID, followedID uint) error
	Unfollow(followerID, followedID uint) error
	IsFollowing(followerID, followedID uint) (bool, error)
	IsFollowedBy(userID, otherID uint) (bool, error)
	Followers(userID uint) ([]models.User, error)
	Following(userID uint) ([]models.User, error)
	Delete(id uint) error
}

type MessageRepository interface {
	Create(message *models.Message) error
	ByID(id uint) (*models.Message, error)
	Delete(id uint) error
	ByUser(userID uint, limit int) ([]models.Message, error)
	Timeline(userID uint, limit int) ([]models.Message, error)
}
