package suggest

import (
	"fmt"
	"strings"

	"github.com/gemdo/gemdo/internal/task"
)

// buildTasksPrompt builds the new-task suggestion prompt. Current tasks
// are listed with checked/unchecked markers; an empty list switches to
// asking for common starter tasks.
func buildTasksPrompt(tasks []task.Task) string {
	var list string
	if len(tasks) > 0 {
		var b strings.Builder
		for i, t := range tasks {
			if i > 0 {
				b.WriteString("\n")
			}
			marker := " "
			if t.Completed {
				marker = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s", marker, t.Text)
		}
		list = b.String()
	} else {
		list = "The list is empty. Suggest some common starting tasks like 'Create a grocery list' or 'Plan week's schedule'."
	}

	return fmt.Sprintf(`Based on the following to-do list, suggest 3 new, related, and actionable tasks.
The tasks should be concise. Avoid suggesting tasks that are already on the list.
Return the suggestions as a JSON array of strings.

Current Tasks:
%s

Your response must be a valid JSON array of strings, for example: ["New task 1", "New task 2", "New task 3"].
Do not include any other text or markdown formatting in your response.`, list)
}

// buildCategoryPrompt builds the single-category prompt. The response is
// free text, not schema-constrained.
func buildCategoryPrompt(text string) string {
	return fmt.Sprintf(`Categorize the following to-do task into a single word.
Examples: "Personal", "Work", "Health", "Finance", "Shopping", "Home", "Social".
If unsure, use a general category like "General".
Return only the single category word as a plain string.

Task: %q

Category:`, text)
}

// buildCategoriesPrompt builds the candidate-categories prompt.
func buildCategoriesPrompt(text string) string {
	return fmt.Sprintf(`Suggest up to 5 relevant, single-word categories for the following to-do task.
Common categories include: "Personal", "Work", "Health", "Finance", "Shopping", "Home", "Social", "Urgent".
Return the suggestions as a JSON array of strings.

Task: %q

Your response must be a valid JSON array of strings, for example: ["Work", "Project", "Urgent"].
Do not include any other text or markdown formatting in your response.`, text)
}
