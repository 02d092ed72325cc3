package contest

import (
	"sort"
	"time"

	"github.com/nagasawakenji/walkfind/internal/database/models"
)

// RankSubmissions orders a contest's photos and produces the final result
// records. Photos are sorted by vote total descending, ties broken by earlier
// submission time. Ranks follow standard competition ranking: tied photos
// share a rank and the next distinct score takes its 1-based position, so a
// tie at rank 2 yields 1, 2, 2, 4 rather than 1, 2, 2, 3. Every photo tied
// for rank 1 is flagged as a winner.
//
// The function is pure: the input slice is not modified and no storage is
// touched.
func RankSubmissions(contestID uint, photos []models.Photo, calculatedAt time.Time) []models.ContestResult {
	sorted := make([]models.Photo, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalVotes != sorted[j].TotalVotes {
			return sorted[i].TotalVotes > sorted[j].TotalVotes
		}
		return sorted[i].SubmittedAt.Before(sorted[j].SubmittedAt)
	})

	results := make([]models.ContestResult, 0, len(sorted))
	for i, photo := range sorted {
		rank := i + 1
		if i > 0 && photo.TotalVotes == sorted[i-1].TotalVotes {
			rank = results[i-1].FinalRank
		}
		results = append(results, models.ContestResult{
			ContestID:    contestID,
			PhotoID:      photo.ID,
			FinalRank:    rank,
			FinalScore:   photo.TotalVotes,
			IsWinner:     rank == 1,
			CalculatedAt: calculatedAt,
		})
	}
	return results
}
