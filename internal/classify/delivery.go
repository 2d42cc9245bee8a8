package classify

import (
	"slices"
	"strings"

	"github.com/joseph-ayodele/live-orders/constants"
	"github.com/joseph-ayodele/live-orders/internal/entity"
)

var deliveryRules = []rule[constants.DeliveryMode]{
	{tag: constants.HomeDelivery, patterns: ci(
		`(livraison|livrez|apportez|amenez)\s+(à|au)\s+(domicile|maison|chez moi)`,
		`(domicile|maison|adresse)\s+(de\s+)?livraison`,
		`(envoyez|envoyez-moi|envoie)\s+(à|au)`,
	)},
	{tag: constants.ExpressDelivery, patterns: ci(
		`(express|rapide|urgent|urgence)\s+(livraison|envoi)`,
		`(livraison|envoi)\s+(express|rapide|urgent)`,
	)},
	{tag: constants.Pickup, patterns: ci(
		`retrait|pick.?up|récupérer|venir chercher`,
		`sur place|en magasin|au bureau`,
		`(je passe|je viens)\s+(chercher|prendre)`,
	)},
	{tag: constants.StoreDelivery, patterns: ci(
		`point\s+relais|relais colis|dépôt`,
		`bureau\s+de\s+poste|poste`,
	)},
}

var notePatterns = ci(
	`(avant)\s*(\d{1,2})h`,
	`(après)\s*(\d{1,2})h`,
	`(matin|soir|midi)`,
	`(demain|aujourd'hui|ce soir)`,
)

var urgencyTokens = []string{"urgent", "rapide"}

// DeliveryModes returns every delivery mode mentioned in text, in table order.
func DeliveryModes(text string) []constants.DeliveryMode {
	return detect(deliveryRules, text)
}

// ResolveDeliveryMode picks the highest-priority detected mode.
func ResolveDeliveryMode(detected []constants.DeliveryMode) constants.DeliveryMode {
	for _, mode := range constants.DeliveryPriority {
		if slices.Contains(detected, mode) {
			return mode
		}
	}
	return constants.DeliveryUnknown
}

// Delivery classifies the delivery request found in text.
func Delivery(text string, address entity.Address) entity.DeliveryInfo {
	detected := DeliveryModes(text)
	return entity.DeliveryInfo{
		Mode:          ResolveDeliveryMode(detected),
		DetectedModes: detected,
		Address:       address,
		Notes:         DeliveryNotes(text),
		Urgency:       Urgency(text),
	}
}

// DeliveryNotes collects time-of-day and relative-day mentions joined by "; ".
func DeliveryNotes(text string) string {
	lower := strings.ToLower(text)
	var notes []string
	for _, p := range notePatterns {
		for _, m := range p.FindAllStringSubmatch(lower, -1) {
			notes = append(notes, joinGroups(m))
		}
	}
	return strings.Join(notes, "; ")
}

func joinGroups(m []string) string {
	if len(m) <= 1 {
		return m[0]
	}
	return strings.Join(m[1:], " ")
}

// Urgency is high as soon as an urgency token appears anywhere in text.
func Urgency(text string) constants.Urgency {
	lower := strings.ToLower(text)
	for _, tok := range urgencyTokens {
		if strings.Contains(lower, tok) {
			return constants.UrgencyHigh
		}
	}
	return constants.UrgencyNormal
}
