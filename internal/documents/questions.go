package documents

import (
	"slices"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/types"
)

var fieldQuestions = map[types.EntityField]string{
	types.FieldAreaM2:     "What is the total area to be covered, in m²?",
	types.FieldFloors:     "How many floors or levels does the building have?",
	types.FieldPointCount: "How many cameras, outlets or network points are required?",
	types.FieldPowerHP:    "What is the total installed motor power, in HP or kW?",
}

// pendingQuestions lists what the customer should confirm: every entity the service
// prices from that was not found in the text, plus the client name.
func pendingQuestions(svc catalog.Service, entities types.ExtractedEntities, dc Context) []string {
	fields := svc.Fields()
	if !slices.Contains(fields, types.FieldAreaM2) {
		fields = append(fields, types.FieldAreaM2)
	}

	var questions []string
	for _, f := range entities.Missing() {
		if slices.Contains(fields, f) {
			questions = append(questions, fieldQuestions[f])
		}
	}
	if clientName(entities, dc) == "" {
		questions = append(questions, "Who is the client or company the document is addressed to?")
	}
	return questions
}
