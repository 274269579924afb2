package ai

import (
	"fmt"
	"strings"
)

// CategoryOption is an existing (name, icon) pair embedded in the
// prompt so the model prefers matching over inventing new categories.
type CategoryOption struct {
	Name string
	Icon string
}

const promptTemplate = `You are an AI assistant helping to parse expense information from natural language.

User Input: %q

Existing User Groups: %s
Existing User Categories: %s

TASK: Parse the user input and extract ALL expenses mentioned. The user might mention multiple expenses in one sentence.

For EACH expense found, extract:
1. amount (numeric value only, no currency symbols)
2. description (brief description of what was purchased)
3. category_name (match to existing categories if possible, or suggest a new category name)
4. group_name (match to existing groups if mentioned, otherwise null)
5. is_new_category (true if this is a new category not in the existing list)
6. suggested_icon (if is_new_category is true, suggest a valid Google Material Symbol icon name that fits the category)

IMPORTANT RULES:
- If multiple expenses are mentioned, return an array of expense objects
- For amounts, extract only the numeric value as a string (e.g., "500" from "$500" or "500 rupees")
- Match group names case-insensitively to existing groups
- For categories, try to match existing ones first
- If creating a new category, suggest an appropriate Material Symbol icon name (e.g., "shopping_cart", "restaurant", "local_gas_station", "flight", "home", "fitness_center")
- Be smart about category matching (e.g., "food" could match "Food & Dining", "groceries" could match "Groceries")

Return ONLY a valid JSON object with this exact structure:
{
    "expenses": [
        {
            "amount": "500.00",
            "description": "Dinner at restaurant",
            "category_name": "Food & Dining",
            "group_name": "Trekking Group",
            "is_new_category": false,
            "suggested_icon": null
        }
    ]
}

Return ONLY the JSON, no additional text or explanations.`

// BuildPrompt constructs the extraction instruction for the model.
// Given identical inputs the output is byte-identical: no timestamps,
// no randomness, and the caller controls the ordering of groups and
// categories, so prompts are cacheable and testable.
func BuildPrompt(userInput string, groups []string, categories []CategoryOption) string {
	groupsStr := "No groups"
	if len(groups) > 0 {
		groupsStr = strings.Join(groups, ", ")
	}

	categoriesStr := "No categories"
	if len(categories) > 0 {
		pairs := make([]string, 0, len(categories))
		for _, c := range categories {
			pairs = append(pairs, fmt.Sprintf("%s (%s)", c.Name, c.Icon))
		}
		categoriesStr = strings.Join(pairs, ", ")
	}

	return fmt.Sprintf(promptTemplate, userInput, groupsStr, categoriesStr)
}
