package game

import (
	"github.com/winterden/mafiabot/internal/lang"
	"github.com/winterden/mafiabot/internal/models"
)

// eventProbability is the chance that any event fires at night start
const eventProbability = 0.2

// eventPool is the uniform choice set when an event fires
var eventPool = []models.NightEvent{
	models.NightEventBlizzard,
	models.NightEventBonfire,
	models.NightEventFirework,
}

// eventTexts maps an active event to its announcement
var eventTexts = map[models.NightEvent]string{
	models.NightEventBlizzard: lang.EventBlizzard,
	models.NightEventBonfire:  lang.EventBonfire,
	models.NightEventFirework: lang.EventFirework,
}

// rollNightEvent draws the cycle's random modifier at the night-start
// extension point. This is the only place events are decided.
func (s *service) rollNightEvent() models.NightEvent {
	if s.cfg.Random.Float64() > eventProbability {
		return models.NightEventNone
	}
	return eventPool[s.cfg.Random.Intn(len(eventPool))]
}
