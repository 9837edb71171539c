package match

import "github.com/google/uuid"

// BuildTeamOrder interleaves the two teams round-robin starting from first,
// assigning each team exactly perTeam turns. Once a team has exhausted its
// quota the remaining slots go to the other team. The result is deterministic
// for the same inputs.
func BuildTeamOrder(first uuid.UUID, teams [2]uuid.UUID, perTeam int) []uuid.UUID {
	order := make([]uuid.UUID, 0, 2*perTeam)
	assigned := map[uuid.UUID]int{teams[0]: 0, teams[1]: 0}

	current := first
	for len(order) < 2*perTeam {
		if assigned[current] >= perTeam {
			// quota reached, skip to the other team
			current = other(current, teams)
			continue
		}
		order = append(order, current)
		assigned[current]++
		current = other(current, teams)
	}
	return order
}

func other(id uuid.UUID, teams [2]uuid.UUID) uuid.UUID {
	if id == teams[0] {
		return teams[1]
	}
	return teams[0]
}
