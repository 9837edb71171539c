package tournament

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/finfootball/go/internal/models"
)

// buildBracket constructs the full double-elimination topology for the given
// roster. Team count is padded to the next power of two; unpaired round-1
// slots become system byes resolved at launch. Every match declares where its
// winner and loser feed before any result exists.
func buildBracket(teams []*models.Team, now time.Time) (*models.Tournament, error) {
	n := len(teams)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least two teams, got %d", ErrInvalidBracket, n)
	}

	size := 2
	rounds := 1
	for size < n {
		size *= 2
		rounds++
	}

	t := &models.Tournament{
		Matches: make(map[uuid.UUID]*models.BracketMatch),
		Teams:   make(map[uuid.UUID]*models.Team, n),
	}
	for i, team := range teams {
		cp := *team
		cp.Seed = i + 1
		t.Teams[cp.ID] = &cp
	}

	// winners bracket: rounds of size/2^r matches
	winners := make([][]*models.BracketMatch, rounds)
	for r := 0; r < rounds; r++ {
		count := size >> (r + 1)
		stage := models.Stage{
			ID:      uuid.New(),
			Name:    fmt.Sprintf("Winners Round %d", r+1),
			Bracket: models.BracketWinners,
			Order:   r + 1,
		}
		winners[r] = make([]*models.BracketMatch, count)
		for i := 0; i < count; i++ {
			m := &models.BracketMatch{
				ID:      uuid.New(),
				StageID: stage.ID,
				Label:   fmt.Sprintf("W%d-%d", r+1, i+1),
				Status:  models.MatchStatusPending,
			}
			winners[r][i] = m
			stage.MatchIDs = append(stage.MatchIDs, m.ID)
			t.Matches[m.ID] = m
		}
		t.Stages = append(t.Stages, stage)
	}

	// losers bracket: alternating minor/major rounds, 2*(rounds-1) total
	var losers [][]*models.BracketMatch
	if rounds > 1 {
		losers = make([][]*models.BracketMatch, 2*(rounds-1))
		for l := 0; l < len(losers); l++ {
			tier := l/2 + 1
			count := size >> (tier + 1)
			stage := models.Stage{
				ID:      uuid.New(),
				Name:    fmt.Sprintf("Losers Round %d", l+1),
				Bracket: models.BracketLosers,
				Order:   rounds + l + 1,
			}
			losers[l] = make([]*models.BracketMatch, count)
			for i := 0; i < count; i++ {
				m := &models.BracketMatch{
					ID:      uuid.New(),
					StageID: stage.ID,
					Label:   fmt.Sprintf("L%d-%d", l+1, i+1),
					Status:  models.MatchStatusPending,
				}
				losers[l][i] = m
				stage.MatchIDs = append(stage.MatchIDs, m.ID)
				t.Matches[m.ID] = m
			}
			t.Stages = append(t.Stages, stage)
		}
	}

	// finals: grand final and the conditional reset
	finalsStage := models.Stage{
		ID:      uuid.New(),
		Name:    "Finals",
		Bracket: models.BracketFinals,
		Order:   rounds + len(losers) + 1,
	}
	grandFinal := &models.BracketMatch{
		ID:         uuid.New(),
		StageID:    finalsStage.ID,
		Label:      "GF",
		Status:     models.MatchStatusPending,
		NextWinner: &models.NextRef{Championship: true},
	}
	grandFinalReset := &models.BracketMatch{
		ID:         uuid.New(),
		StageID:    finalsStage.ID,
		Label:      "GF-RESET",
		Status:     models.MatchStatusPending,
		NextWinner: &models.NextRef{Championship: true},
	}
	finalsStage.MatchIDs = []uuid.UUID{grandFinal.ID, grandFinalReset.ID}
	t.Stages = append(t.Stages, finalsStage)
	t.Matches[grandFinal.ID] = grandFinal
	t.Matches[grandFinalReset.ID] = grandFinalReset
	t.GrandFinalID = grandFinal.ID
	t.GrandFinalResetID = grandFinalReset.ID

	// winners-bracket edges
	for r := 0; r < rounds; r++ {
		for i, m := range winners[r] {
			if r < rounds-1 {
				m.NextWinner = &models.NextRef{MatchID: &winners[r+1][i/2].ID, Slot: i % 2}
			} else {
				m.NextWinner = &models.NextRef{MatchID: &grandFinal.ID, Slot: 0}
			}
			switch {
			case rounds == 1:
				// two-team bracket: the final's loser goes straight to the
				// grand final for a second chance
				m.NextLoser = &models.NextRef{MatchID: &grandFinal.ID, Slot: 1}
			case r == 0:
				m.NextLoser = &models.NextRef{MatchID: &losers[0][i/2].ID, Slot: i % 2}
			default:
				// round r>=1 losers drop into major losers round 2r
				m.NextLoser = &models.NextRef{MatchID: &losers[2*r-1][i].ID, Slot: 0}
			}
		}
	}

	// losers-bracket edges
	for l := 0; l < len(losers); l++ {
		last := l == len(losers)-1
		for i, m := range losers[l] {
			switch {
			case last:
				m.NextWinner = &models.NextRef{MatchID: &grandFinal.ID, Slot: 1}
			case l%2 == 0:
				// minor round winner meets the next winners-bracket loser
				m.NextWinner = &models.NextRef{MatchID: &losers[l+1][i].ID, Slot: 1}
			default:
				// major round winners pair up in the following minor round
				m.NextWinner = &models.NextRef{MatchID: &losers[l+1][i/2].ID, Slot: i % 2}
			}
			// no NextLoser: losing here is elimination
		}
	}

	// seed round one in seed order; unpaired slots stay nil and resolve as
	// byes at launch
	for i, team := range teams {
		m := winners[0][i/2]
		id := team.ID
		m.Teams[i%2] = &id
	}
	for i := n; i < size; i++ {
		winners[0][i/2].SlotVoid[i%2] = true
	}
	for _, m := range winners[0] {
		if m.FullySeeded() {
			m.Status = models.MatchStatusScheduled
		}
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	t.Status = models.TournamentStatusSetup
	return t, nil
}
