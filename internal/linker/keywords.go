package linker

// keywordGroup ties one service category label to the phrases that imply it.
type keywordGroup struct {
	Label    string
	Keywords []string
}

// keywordGroups is the static classifier table. Group order is the order
// labels appear in MatchedCategories; keyword matching is plain substring
// containment over normalized text.
var keywordGroups = []keywordGroup{
	{
		Label: "vip",
		Keywords: []string{
			"vip", "backstage", "meet and greet", "meet & greet",
			"premium", "concierge", "exclusive", "red carpet",
		},
	},
	{
		Label: "corporate",
		Keywords: []string{
			"corporate", "team building", "offsite", "retreat",
			"client event", "employee event", "company outing",
			"incentive", "sponsorship", "brand activation",
		},
	},
	{
		Label: "educational",
		Keywords: []string{
			"education", "educational", "student", "school",
			"workshop", "master class", "masterclass",
			"matinee", "field trip", "curriculum",
		},
	},
	{
		Label: "holiday",
		Keywords: []string{
			"holiday", "christmas", "hanukkah", "new year",
			"valentine", "mother s day", "fathers day", "gift", "seasonal",
			"halloween", "black friday", "cyber monday",
		},
	},
	{
		Label: "group",
		Keywords: []string{
			"group tickets", "group sales", "group rate", "groups",
			"bulk tickets", "group reservations",
		},
	},
}

// keywordsForLabels flattens the keyword lists of the given labels in table
// order. Duplicate keywords across labels are harmless to the recommender.
func keywordsForLabels(labels []string) []string {
	wanted := make(map[string]bool, len(labels))
	for _, label := range labels {
		wanted[label] = true
	}
	var keywords []string
	for _, group := range keywordGroups {
		if wanted[group.Label] {
			keywords = append(keywords, group.Keywords...)
		}
	}
	return keywords
}
