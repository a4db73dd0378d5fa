package main

import "github.com/ironcrest/proctor-backend/internal/model"

const sampleAssessmentID = "assess_civil_001"

func samplePaper() *model.CreateAssessmentRequest {
	key := func(i int) *int { return &i }

	return &model.CreateAssessmentRequest{
		ID:              sampleAssessmentID,
		Name:            "Ironcrest Recruitment Assessment Round",
		DurationMinutes: 90,
		Questions: []model.QuestionInput{
			{
				ID:                 "r1",
				Text:               "If a contractor completes 60% of work in 24 days, assuming uniform progress, how many days are required to complete the remaining work?",
				Type:               string(model.QuestionTypeMultipleChoice),
				Section:            model.SectionReasoning,
				Options:            []string{"12", "14", "16", "18"},
				CorrectOptionIndex: key(2),
			},
			{
				ID:                 "r2",
				Text:               "A site has 3 shifts of equal duration. If productivity drops by 20% in night shift, overall productivity reduces by:",
				Type:               string(model.QuestionTypeMultipleChoice),
				Section:            model.SectionReasoning,
				Options:            []string{"6.6%", "8%", "10%", "12%"},
				CorrectOptionIndex: key(0),
			},
			{
				ID:                 "a1",
				Text:               "A slab of 180 m² area and 150 mm thickness requires how much concrete?",
				Type:               string(model.QuestionTypeMultipleChoice),
				Section:            model.SectionAptitude,
				Options:            []string{"22.5 m³", "25.5 m³", "27 m³", "30 m³"},
				CorrectOptionIndex: key(2),
			},
			{
				ID:                 "t1",
				Text:               "What is the primary cause of segregation in concrete?",
				Type:               string(model.QuestionTypeMultipleChoice),
				Section:            model.SectionTechnical,
				Options:            []string{"Low water content", "Excess vibration", "Poor curing", "High cement content"},
				CorrectOptionIndex: key(1),
			},
			{
				ID:      "w1",
				Text:    "Explain how you would manage a construction project that is delayed due to labour shortage and material price fluctuation. Mention practical steps and risk mitigation.",
				Type:    string(model.QuestionTypeWritten),
				Section: model.SectionWrittenExp,
			},
		},
	}
}
