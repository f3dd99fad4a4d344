package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Weekly   PayFrequency = "weekly"
	Biweekly PayFrequency = "biweekly"
	Monthly  PayFrequency = "monthly"
)

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Priority bounds for bills. Inputs outside the range are clamped to
// PriorityLow so that out-of-range values sort after every defined level.
const (
	PriorityHigh = 1
	PriorityLow  = 3
)

// DefaultGroceryCategory is used when no category is provided.
const DefaultGroceryCategory = "Other"

type (
	PayFrequency string
	ThemeMode    string

	// IncomeSettings is the per-user income document. Both fields are
	// always written together; an absent document means income was never
	// configured.
	IncomeSettings struct {
		Salary    decimal.Decimal `json:"salary"`
		Frequency PayFrequency    `json:"frequency"`
	}

	// Bill is a recurring obligation with a due date and a display
	// priority. Frequency is informational only and never enters any
	// computation.
	Bill struct {
		ID        string          `json:"id,omitempty"`
		Name      string          `json:"name"`
		Amount    decimal.Decimal `json:"amount"`
		DueDate   Date            `json:"dueDate"`
		Frequency string          `json:"frequency"`
		Priority  int             `json:"priority"`
	}

	// GroceryItem is a single line on the grocery list. Text is the
	// composed display string; insertion order is display order.
	GroceryItem struct {
		ID       string `json:"id,omitempty"`
		Text     string `json:"text"`
		Category string `json:"category"`
	}

	// Theme is the per-user presentation preference.
	Theme struct {
		Mode ThemeMode `json:"mode"`
	}
)

var (
	ErrEmptyName        = errors.New("name is required")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeSalary   = errors.New("salary must be a non-negative number")
	ErrEmptyFrequency   = errors.New("frequency is required")
	ErrEmptyDueDate     = errors.New("due date is required")
	ErrEmptyQuantity    = errors.New("quantity is required")
	ErrEmptyItem        = errors.New("item name is required")
	ErrInvalidThemeMode = errors.New("theme mode must be light or dark")
)

// ClampPriority maps any integer onto the defined priority range.
// Resolves the open question around out-of-range priorities: they are
// treated as lowest priority rather than inheriting an undefined sort
// position.
func ClampPriority(p int) int {
	if p < PriorityHigh {
		return PriorityHigh
	}
	if p > PriorityLow {
		return PriorityLow
	}
	return p
}

func (f PayFrequency) Validate() error {
	if strings.TrimSpace(string(f)) == "" {
		return ErrEmptyFrequency
	}
	return nil
}

func (s IncomeSettings) Validate() error {
	if s.Salary.IsNegative() {
		return ErrNegativeSalary
	}
	return s.Frequency.Validate()
}

func (m ThemeMode) Validate() error {
	switch m {
	case ThemeLight, ThemeDark:
		return nil
	}
	return ErrInvalidThemeMode
}

func (t Theme) Validate() error {
	return t.Mode.Validate()
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if b.DueDate.IsZero() {
		return ErrEmptyDueDate
	}
	if len(b.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

func (g GroceryItem) Validate() error {
	if strings.TrimSpace(g.Text) == "" {
		return ErrEmptyItem
	}
	return nil
}

// ComposeGroceryText builds the display string "<qty><unit> <item>",
// trimmed. Unit is appended to quantity without a separator when present.
func ComposeGroceryText(qty, unit, item string) string {
	qty = strings.TrimSpace(qty)
	unit = strings.TrimSpace(unit)
	item = strings.TrimSpace(item)
	return strings.TrimSpace(fmt.Sprintf("%s%s %s", qty, unit, item))
}

// NewGroceryItem validates the raw form inputs and composes the item.
// Quantity and item name are required; unit and category are optional.
func NewGroceryItem(qty, unit, item, category string) (GroceryItem, error) {
	if strings.TrimSpace(qty) == "" {
		return GroceryItem{}, ErrEmptyQuantity
	}
	if strings.TrimSpace(item) == "" {
		return GroceryItem{}, ErrEmptyItem
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultGroceryCategory
	}
	return GroceryItem{
		Text:     ComposeGroceryText(qty, unit, item),
		Category: category,
	}, nil
}
