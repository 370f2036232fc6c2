package models

// Follows is a directed edge meaning "UserFollowing follows UserBeingFollowed".
// The composite primary key makes each ordered pair unique; the edge is
// owned by neither user.
type Follows struct {
	UserBeingFollowedID uint `gorm:"primaryKey" json:"user_being_followed_id"`
	UserFollowingID     uint `gorm:"primaryKey" json:"user_following_id"`

	FollowedUser  User `gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE" json:"-"`
	FollowingUser User `gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name used by GORM
func (Follows) TableName() string {
	return "follows"
}
