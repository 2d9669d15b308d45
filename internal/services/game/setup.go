package game

import (
	"github.com/winterden/mafiabot/internal/models"
)

// smallGameRoles is the fixed prefix dealt to five players or fewer
var smallGameRoles = []models.RoleKind{
	models.RoleMafia,
	models.RoleSheriff,
	models.RoleDoctor,
	models.RolePeace,
	models.RolePeace,
}

// optionalRoles is the pool of special roles drawn from in larger games
var optionalRoles = []models.RoleKind{
	models.RoleMistress,
	models.RoleDrunkard,
	models.RoleKamikaze,
	models.RoleDeputy,
	models.RoleSnowman,
	models.RoleTracker,
}

// composeRoles builds the shuffled role sequence for a player count.
// Assignment is by shuffled position, never matched to any player
// attribute.
func (s *service) composeRoles(playerCount int, mode models.GameMode) []models.RoleKind {
	if mode == models.GameModeTriad || playerCount == 3 {
		roles := []models.RoleKind{
			models.RoleXmasSanta,
			models.RoleXmasElf,
			models.RoleXmasDarkElf,
		}
		s.shuffleRoles(roles)
		return roles
	}

	if playerCount <= len(smallGameRoles) {
		roles := make([]models.RoleKind, playerCount)
		copy(roles, smallGameRoles[:playerCount])
		s.shuffleRoles(roles)
		return roles
	}

	mafiaCount := playerCount / 3
	if mafiaCount < 1 {
		mafiaCount = 1
	}

	roles := make([]models.RoleKind, 0, playerCount)
	for i := 0; i < mafiaCount; i++ {
		roles = append(roles, models.RoleMafia)
	}
	roles = append(roles, models.RoleSheriff, models.RoleDoctor, models.RoleDon)

	pool := make([]models.RoleKind, len(optionalRoles))
	copy(pool, optionalRoles)
	s.shuffleRoles(pool)
	for _, role := range pool {
		if len(roles) >= playerCount {
			break
		}
		roles = append(roles, role)
	}

	for len(roles) < playerCount {
		roles = append(roles, models.RolePeace)
	}

	s.shuffleRoles(roles)
	return roles
}

func (s *service) shuffleRoles(roles []models.RoleKind) {
	s.cfg.Random.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})
}
