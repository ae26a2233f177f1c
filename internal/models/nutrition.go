// ABOUTME: FoodItem, DailyFoodLog, and NutritionHistory models.
// ABOUTME: Daily totals are accumulated on append, never recomputed.
package models

// FoodItem is one AI-estimated food entry. Macros are in grams.
type FoodItem struct {
	Name     string  `json:"name" yaml:"name"`
	Calories int     `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// MacroTotals is the running sum of a day's food items.
type MacroTotals struct {
	Calories int     `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// DailyFoodLog is everything eaten on one date.
type DailyFoodLog struct {
	Items  []FoodItem  `json:"items" yaml:"items"`
	Totals MacroTotals `json:"totals" yaml:"totals"`
}

// Append adds items and folds them into the running totals.
func (l *DailyFoodLog) Append(items ...FoodItem) {
	for _, item := range items {
		l.Items = append(l.Items, item)
		l.Totals.Calories += item.Calories
		l.Totals.Protein += item.Protein
		l.Totals.Carbs += item.Carbs
		l.Totals.Fat += item.Fat
	}
}

// NutritionHistory maps a date key to that day's log.
type NutritionHistory map[string]*DailyFoodLog

// Log returns the log for date, or an empty log when none exists.
func (h NutritionHistory) Log(date string) DailyFoodLog {
	if l, ok := h[date]; ok && l != nil {
		return *l
	}
	return DailyFoodLog{Items: []FoodItem{}}
}

// Append adds items to date's log, creating it lazily.
func (h NutritionHistory) Append(date string, items ...FoodItem) {
	l, ok := h[date]
	if !ok || l == nil {
		l = &DailyFoodLog{Items: []FoodItem{}}
		h[date] = l
	}
	l.Append(items...)
}

// Clone returns a deep copy.
func (h NutritionHistory) Clone() NutritionHistory {
	out := make(NutritionHistory, len(h))
	for date, l := range h {
		if l == nil {
			continue
		}
		cp := &DailyFoodLog{Items: make([]FoodItem, len(l.Items)), Totals: l.Totals}
		copy(cp.Items, l.Items)
		out[date] = cp
	}
	return out
}
