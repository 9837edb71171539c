package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTeamOrderAlternates(t *testing.T) {
	teamA := uuid.New()
	teamB := uuid.New()
	teams := [2]uuid.UUID{teamA, teamB}

	order := BuildTeamOrder(teamB, teams, 3)

	require.Len(t, order, 6)
	assert.Equal(t, []uuid.UUID{teamB, teamA, teamB, teamA, teamB, teamA}, order)
}

func TestBuildTeamOrderQuota(t *testing.T) {
	teamA := uuid.New()
	teamB := uuid.New()

	order := BuildTeamOrder(teamA, [2]uuid.UUID{teamA, teamB}, 10)

	counts := map[uuid.UUID]int{}
	for _, id := range order {
		counts[id]++
	}
	assert.Equal(t, 10, counts[teamA])
	assert.Equal(t, 10, counts[teamB])
}

func TestBuildTeamOrderDeterministic(t *testing.T) {
	teamA := uuid.New()
	teamB := uuid.New()
	teams := [2]uuid.UUID{teamA, teamB}

	first := BuildTeamOrder(teamA, teams, 5)
	second := BuildTeamOrder(teamA, teams, 5)
	assert.Equal(t, first, second)
}
