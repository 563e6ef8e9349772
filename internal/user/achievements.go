package user

import "github.com/mauv0809/sportapp/internal/model"

// buildAchievements derives the milestones from the number of distinct sports
// played, the number of matches played and the size of the sports catalog.
func buildAchievements(playedSports, playedMatches, totalSports int) map[model.Achievement]bool {
	return map[model.Achievement]bool{
		model.AtLeastOneSport:          playedSports >= 1,
		model.AtLeastFiveSports:        playedSports >= 5,
		model.AllSports:                totalSports > 0 && playedSports >= totalSports,
		model.AtLeastThreeMatches:      playedMatches >= 3,
		model.AtLeastTenMatches:        playedMatches >= 10,
		model.AtLeastTwentyFiveMatches: playedMatches >= 25,
	}
}
