package database

import (
	"errors"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
	"gorm.io/gorm"
)

var ErrAlreadyVoted = errors.New("already voted for this photo")
var ErrAlreadySubmitted = errors.New("already submitted to this contest")

// User CRUD

func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := models.UserProfile{UserID: user.ID}
		return tx.Create(&profile).Error
	})
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Profile").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByCognitoSub(db *gorm.DB, sub string) (*models.User, error) {
	var user models.User
	if err := db.Where("cognito_sub = ?", sub).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetAllUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Preload("Profile").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func GetUserProfile(db *gorm.DB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func UpdateUserProfile(db *gorm.DB, profile *models.UserProfile) error {
	return db.Save(profile).Error
}

// Contest CRUD

func CreateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Create(contest).Error
}

func GetContestByID(db *gorm.DB, id uint) (*models.Contest, error) {
	var contest models.Contest
	if err := db.Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, err
	}
	return &contest, nil
}

// GetActiveContests returns contests that are open or awaiting results.
func GetActiveContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	err := db.Where("status IN ?", []models.ContestStatus{
		models.StatusUpcoming, models.StatusInProgress, models.StatusClosedVoting,
	}).Order("start_date asc").Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

func GetAnnouncedContests(db *gorm.DB, page, size int) ([]models.Contest, error) {
	var contests []models.Contest
	err := db.Where("status = ?", models.StatusAnnounced).
		Order("end_date desc").
		Offset(page * size).Limit(size).
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

func ContestNameExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Model(&models.Contest{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// GetAdminContests lists contests for the admin console with optional
// status, keyword, and soft-deleted filters.
func GetAdminContests(db *gorm.DB, status, keyword string, includeRemoved bool, page, size int) ([]models.Contest, error) {
	query := db.Model(&models.Contest{})
	if includeRemoved {
		query = query.Unscoped()
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var contests []models.Contest
	err := query.Order("start_date desc").
		Offset(page * size).Limit(size).
		Find(&contests).Error
	if err != nil {
		return nil, err
	}
	return contests, nil
}

func UpdateContest(db *gorm.DB, contest *models.Contest) error {
	return db.Save(contest).Error
}

// DeleteContest soft-deletes a contest together with its result rows so an
// announced contest never lingers with orphaned results.
func DeleteContest(db *gorm.DB, contestID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", contestID).
			Delete(&models.ContestResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contest{}, "id = ?", contestID).Error
	})
}

// Photo CRUD

// CreatePhoto inserts a submission and bumps the submitter's denormalized
// profile counters in one transaction. One photo per contest per user.
func CreatePhoto(db *gorm.DB, photo *models.Photo) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Photo{}).
			Where("contest_id = ? AND user_id = ?", photo.ContestID, photo.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySubmitted
		}
		if err := tx.Create(photo).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", photo.UserID).
			Updates(map[string]interface{}{
				"total_posts":            gorm.Expr("total_posts + 1"),
				"total_contests_entered": gorm.Expr("total_contests_entered + 1"),
			}).Error; err != nil {
			return err
		}
		return nil
	})
}

func GetPhotoByID(db *gorm.DB, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := db.Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func GetPhotosByContest(db *gorm.DB, contestID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := db.Where("contest_id = ?", contestID).
		Order("submitted_at asc").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func GetPhotosByUser(db *gorm.DB, userID string) ([]models.Photo, error) {
	var photos []models.Photo
	err := db.Where("user_id = ?", userID).
		Order("submitted_at desc").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// Vote path

// CastVote records a vote and increments the photo's denormalized counter.
// Both writes must affect exactly one row; anything else rolls back.
func CastVote(db *gorm.DB, photoID uint, userID string, votedAt time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Vote{}).
			Where("photo_id = ? AND user_id = ?", photoID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyVoted
		}

		vote := models.Vote{PhotoID: photoID, UserID: userID, VotedAt: votedAt}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Photo{}).
			Where("id = ?", photoID).
			Update("total_votes", gorm.Expr("total_votes + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errors.New("vote counter update affected an unexpected number of rows")
		}
		return nil
	})
}

// Result reads

func GetResultsByContest(db *gorm.DB, contestID uint) ([]models.ContestResult, error) {
	var results []models.ContestResult
	err := db.Where("contest_id = ?", contestID).
		Order("final_rank asc, photo_id asc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func CountResultsByContest(db *gorm.DB, contestID uint) (int64, error) {
	var count int64
	err := db.Model(&models.ContestResult{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error
	return count, err
}

func GetWinnersByContest(db *gorm.DB, contestID uint) ([]models.ContestResult, error) {
	var winners []models.ContestResult
	err := db.Where("contest_id = ? AND is_winner = ?", contestID, true).
		Order("photo_id asc").
		Find(&winners).Error
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// GetResultsForUser returns a user's finalized results across all contests,
// newest contest first.
func GetResultsForUser(db *gorm.DB, userID string) ([]models.ContestResult, error) {
	var results []models.ContestResult
	err := db.Model(&models.ContestResult{}).
		Joins("join photos on photos.id = contest_results.photo_id").
		Where("photos.user_id = ?", userID).
		Order("contest_results.calculated_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
