package coach

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"goal-coach/internal/models"
)

// goalSchema is the strict output contract for the agent. Anything that does
// not satisfy it is rejected outright; downstream code treats a RefinedGoal
// as fully trustworthy once constructed.
const goalSchema = `{
  "type": "object",
  "required": ["refined_goal", "key_results", "confidence_score"],
  "properties": {
    "refined_goal": {
      "type": "string",
      "minLength": 1
    },
    "key_results": {
      "type": "array",
      "items": {"type": "string"},
      "minItems": 3,
      "maxItems": 5
    },
    "confidence_score": {
      "type": "number",
      "minimum": 0,
      "maximum": 1
    }
  }
}`

var goalSchemaLoader = gojsonschema.NewStringLoader(goalSchema)

// ParseGoal validates final model text against the RefinedGoal contract and
// decodes it. All-or-nothing: any parse failure, missing field, wrong type,
// or out-of-range value is an error and no partial value is returned.
func ParseGoal(finalText string) (*models.RefinedGoal, error) {
	result, err := gojsonschema.Validate(goalSchemaLoader, gojsonschema.NewStringLoader(finalText))
	if err != nil {
		return nil, fmt.Errorf("goal output is not valid JSON: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("goal output failed schema validation: %v", errs)
	}

	var goal models.RefinedGoal
	if err := json.Unmarshal([]byte(finalText), &goal); err != nil {
		return nil, fmt.Errorf("decode goal output: %w", err)
	}
	return &goal, nil
}
