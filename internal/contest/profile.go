package contest

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RefreshBestRanks recomputes best_rank for every user holding a result row
// in the given contest. The value is a full MIN aggregate over all of the
// user's finalized results, so running it zero, one, or many times for the
// same contest converges on the same state. It runs outside the calculation
// transaction: a failure here never undoes an ANNOUNCED transition.
func RefreshBestRanks(db *gorm.DB, contestID uint) error {
	res := db.Exec(`
		UPDATE user_profiles
		SET best_rank = (
			SELECT MIN(cr.final_rank)
			FROM contest_results cr
			JOIN photos p ON p.id = cr.photo_id
			WHERE p.user_id = user_profiles.user_id
		),
		updated_at = CURRENT_TIMESTAMP
		WHERE user_id IN (
			SELECT p.user_id
			FROM contest_results cr
			JOIN photos p ON p.id = cr.photo_id
			WHERE cr.contest_id = ?
		)`, contestID)
	if res.Error != nil {
		return fmt.Errorf("refresh best ranks for contest %d: %w", contestID, res.Error)
	}

	zap.S().Infof("refreshed best_rank for contest %d, updated %d profiles", contestID, res.RowsAffected)
	return nil
}
