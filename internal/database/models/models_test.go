package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from ContestStatus
		to   ContestStatus
		want bool
	}{
		{StatusUpcoming, StatusInProgress, true},
		{StatusInProgress, StatusClosedVoting, true},
		{StatusClosedVoting, StatusAnnounced, true},

		// No skipping forward.
		{StatusUpcoming, StatusClosedVoting, false},
		{StatusUpcoming, StatusAnnounced, false},
		{StatusInProgress, StatusAnnounced, false},

		// No going back.
		{StatusInProgress, StatusUpcoming, false},
		{StatusClosedVoting, StatusInProgress, false},
		{StatusAnnounced, StatusClosedVoting, false},

		// Terminal state.
		{StatusAnnounced, StatusUpcoming, false},

		// No self loops.
		{StatusUpcoming, StatusUpcoming, false},
		{StatusAnnounced, StatusAnnounced, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s: expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestContestStatusIsValid(t *testing.T) {
	for _, s := range []ContestStatus{StatusUpcoming, StatusInProgress, StatusClosedVoting, StatusAnnounced} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []ContestStatus{"", "DELETED", "upcoming", "VOTING"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
