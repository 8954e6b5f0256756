package extraction

import (
	"fmt"
	"time"
)

const extractionPromptTemplate = `You are a task enrichment assistant. Rewrite task descriptions clearly and extract structured metadata.

First produce **enriched_text**: the task rewritten as one or two clear sentences with spelling and grammar corrected. Preserve the original meaning, names, and deadlines exactly.

Then extract the following fields with confidence scores (0.0-1.0):

1. **project**: Project or category name (e.g., "ProjectX", "Work", "Personal")
   - Confidence: 1.0 if explicitly mentioned, 0.5 if implied, 0.0 if none

2. **persons**: List of person names mentioned (e.g., ["Sarah Johnson", "Mike Chen"])
   - Confidence: 1.0 if full names, 0.8 if first names only, 0.0 if none
   - Use full names when available

3. **deadline**: Original deadline phrase (e.g., "tomorrow at 3pm", "by Friday")
   - Confidence: 1.0 if explicit time/date, 0.7 if relative date, 0.0 if none
   - Preserve original phrasing

4. **task_type**: One of: meeting, call, email, review, development, research, administrative, other
   - Confidence: 1.0 if action verb matches (Call -> call), 0.5 if implied, 0.3 for "other"

5. **priority**: One of: low, normal, high, urgent
   - Confidence: 1.0 if keyword present (urgent, high priority), 0.5 if implied, 0.3 for "normal"

6. **effort_estimate**: Time to complete in minutes (e.g., 30, 60, 120)
   - Confidence: 0.8 if explicitly stated, 0.4 if implied from task type, 0.0 if unknown

7. **dependencies**: List of prerequisites or blockers mentioned
   - Confidence: 0.9 if explicit ("after X", "waiting for Y"), 0.0 if none

8. **tags**: List of hashtags or keywords (e.g., ["bug", "urgent"])
   - Confidence: 1.0 if hashtags present, 0.7 if keywords extracted, 0.0 if none

9. **chain_of_thought**: Brief reasoning for your extractions (1-2 sentences)

**Response Format (JSON)**:
{
  "enriched_text": "Call Sarah Johnson about the ProjectX quarterly review tomorrow at 3pm.",
  "project": "ProjectX",
  "project_confidence": 0.95,
  "persons": ["Sarah Johnson"],
  "persons_confidence": 1.0,
  "deadline": "tomorrow at 3pm",
  "deadline_confidence": 1.0,
  "task_type": "call",
  "task_type_confidence": 1.0,
  "priority": "urgent",
  "priority_confidence": 1.0,
  "effort_estimate": 30,
  "effort_confidence": 0.6,
  "dependencies": [],
  "dependencies_confidence": 0.0,
  "tags": ["quarterly-review"],
  "tags_confidence": 0.7,
  "chain_of_thought": "Task starts with the 'Call' action verb. The 'urgent' keyword sets priority. Full name and project are explicit."
}

**Important**:
- Return ONLY valid JSON, no markdown or extra text
- All confidence scores must be between 0.0 and 1.0
- Use null for missing values, empty arrays [] for empty lists
- Person names should be properly capitalized (Title Case)
- Task type must be one of the allowed values
- Priority must be one of: low, normal, high, urgent

Current date/time for reference: %s`

// ExtractionPrompt renders the system prompt for a given reference time. The
// reference time anchors relative deadline phrases like "tomorrow".
func ExtractionPrompt(ref time.Time) string {
	return fmt.Sprintf(extractionPromptTemplate, ref.UTC().Format(time.RFC3339))
}
