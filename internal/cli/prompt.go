package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter implements valuation.Interactor on top of promptui: a select menu
// for the category, a validated text prompt for each rating. promptui keeps
// re-prompting on invalid input, so a returned error always means the pass
// was interrupted.
type Prompter struct {
	categories map[string]string
	keys       []string // sorted for a stable menu
}

// NewPrompter builds a Prompter over the configured category table.
func NewPrompter(categories map[string]string) *Prompter {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Prompter{categories: categories, keys: keys}
}

// AskCategory shows the item with its observed options and offers the
// category menu, skip first.
func (p *Prompter) AskCategory(item string, options []string) (string, bool, error) {
	fmt.Println(item)
	for _, opt := range options {
		fmt.Printf("    %s\n", opt)
	}

	items := make([]string, 0, len(p.keys)+1)
	items = append(items, "skip")
	for _, k := range p.keys {
		items = append(items, fmt.Sprintf("%s - %s", k, p.categories[k]))
	}

	sel := promptui.Select{
		Label: "Category",
		Items: items,
		Size:  len(items),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return "", false, err
	}
	if idx == 0 {
		return "", true, nil
	}
	return p.keys[idx-1], false, nil
}

// AskRating prompts for a zero-centered integer rating.
func (p *Prompter) AskRating(prompt string) (int, error) {
	in := promptui.Prompt{
		Label: prompt + " (0-centered rating)",
		Validate: func(s string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("integer value please")
			}
			return nil
		},
	}
	value, err := in.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(value))
}
