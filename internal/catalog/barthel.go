package catalog

// Barthel returns the Barthel Index of independence in activities of daily
// living. Question ids, ordering and option point values follow the published
// scale; the maximum total is 100.
func Barthel() *Definition {
	return &Definition{
		ID:             "barthel",
		Name:           "Barthel Index",
		Acronym:        "BI",
		Description:    "Measures independence in ten basic activities of daily living.",
		Category:       "functional",
		Specialty:      "rehabilitation",
		BodySystem:     "musculoskeletal",
		Tags:           []string{"adl", "independence", "geriatrics"},
		TimeToComplete: "5 min",
		Instructions:   "For each activity, choose the option that best describes what the patient actually does, not what they could do.",
		Version:        "1965",
		Questions: []Question{
			{
				ID:          "comida",
				Prompt:      "Feeding",
				Description: "Ability to eat without assistance",
				Options: []Option{
					{Value: 10, Label: "Independent", Description: "Able to eat alone in a reasonable time. Food may be cooked and served by another person."},
					{Value: 5, Label: "Needs help", Description: "Needs help cutting meat, spreading butter, etc., but is able to eat alone."},
					{Value: 0, Label: "Dependent", Description: "Needs to be fed by another person."},
				},
			},
			{
				ID:          "lavado",
				Prompt:      "Bathing",
				Description: "Ability to wash without assistance",
				Options: []Option{
					{Value: 5, Label: "Independent", Description: "Able to wash completely and to get in and out of the bath without help."},
					{Value: 0, Label: "Dependent", Description: "Needs some form of help or supervision."},
				},
			},
			{
				ID:          "vestido",
				Prompt:      "Dressing",
				Description: "Ability to put on and take off clothing",
				Options: []Option{
					{Value: 10, Label: "Independent", Description: "Able to put on and take off clothing without help."},
					{Value: 5, Label: "Needs help", Description: "Performs more than half of these tasks without help."},
					{Value: 0, Label: "Dependent", Description: "Needs help with most dressing tasks."},
				},
			},
			{
				ID:          "arreglo",
				Prompt:      "Grooming",
				Description: "Ability to maintain personal hygiene",
				Options: []Option{
					{Value: 5, Label: "Independent", Description: "Performs all personal care activities without any help."},
					{Value: 0, Label: "Dependent", Description: "Needs some help with grooming."},
				},
			},
			{
				ID:          "deposicion",
				Prompt:      "Bowels",
				Description: "Bowel control",
				Options: []Option{
					{Value: 10, Label: "Continent", Description: "No episodes of incontinence."},
					{Value: 5, Label: "Occasional accident", Description: "Less than one episode per week, or needs help with enemas or suppositories."},
					{Value: 0, Label: "Incontinent", Description: "More than one episode of incontinence per week."},
				},
			},
			{
				ID:          "miccion",
				Prompt:      "Bladder",
				Description: "Bladder control",
				Options: []Option{
					{Value: 10, Label: "Continent", Description: "No episodes of urinary incontinence."},
					{Value: 5, Label: "Occasional accident", Description: "At most one episode in 24 hours."},
					{Value: 0, Label: "Incontinent", Description: "More than one episode in 24 hours."},
				},
			},
			{
				ID:          "retrete",
				Prompt:      "Toilet use",
				Description: "Ability to use the toilet unaided",
				Options: []Option{
					{Value: 10, Label: "Independent", Description: "Gets on and off the toilet alone without requiring help."},
					{Value: 5, Label: "Needs help", Description: "Requires a small amount of help to reach or use the toilet."},
					{Value: 0, Label: "Dependent", Description: "Unable to reach or use the toilet without major assistance."},
				},
			},
			{
				ID:          "transferencias",
				Prompt:      "Transfers",
				Description: "Ability to transfer between bed and chair",
				Options: []Option{
					{Value: 15, Label: "Independent", Description: "No help needed to sit down or get up from a chair or bed."},
					{Value: 10, Label: "Minor help", Description: "Requires supervision or a small amount of physical help to transfer."},
					{Value: 5, Label: "Major help", Description: "Needs a strong person to carry out the transfer."},
					{Value: 0, Label: "Dependent", Description: "Needs a hoist or the assistance of two people to transfer."},
				},
			},
			{
				ID:          "deambulacion",
				Prompt:      "Mobility",
				Description: "Ability to walk or move around",
				Options: []Option{
					{Value: 15, Label: "Independent", Description: "Can walk 50 metres, or its equivalent at home, without help."},
					{Value: 10, Label: "Needs help", Description: "Requires supervision or a small amount of physical help to walk."},
					{Value: 5, Label: "Independent in wheelchair", Description: "Can move around in a wheelchair without help or supervision."},
					{Value: 0, Label: "Dependent", Description: "Needs assistance to move around."},
				},
			},
			{
				ID:          "escaleras",
				Prompt:      "Stairs",
				Description: "Ability to go up and down stairs unaided",
				Options: []Option{
					{Value: 10, Label: "Independent", Description: "Able to go up and down a flight of stairs without help or supervision."},
					{Value: 5, Label: "Needs help", Description: "Requires assistance or supervision on stairs."},
					{Value: 0, Label: "Dependent", Description: "Unable to climb steps without help; requires full assistance."},
				},
			},
		},
	}
}
