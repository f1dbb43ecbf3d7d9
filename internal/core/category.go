package core

// Category is one entry of the fixed spending catalog.
type Category struct {
	Value string
	Icon  string
	Color string
}

const (
	fallbackIcon  = "📝"
	fallbackColor = "#74b9ff"
)

var catalog = [...]Category{
	{Value: "Food & Dining", Icon: "🍽️", Color: "#ff6b6b"},
	{Value: "Transportation", Icon: "🚗", Color: "#4ecdc4"},
	{Value: "Shopping", Icon: "🛒", Color: "#45b7d1"},
	{Value: "Entertainment", Icon: "🎬", Color: "#96ceb4"},
	{Value: "Bills & Utilities", Icon: "💡", Color: "#ffeaa7"},
	{Value: "Healthcare", Icon: "⚕️", Color: "#fd79a8"},
	{Value: "Education", Icon: "📚", Color: "#fdcb6e"},
	{Value: "Travel", Icon: "✈️", Color: "#6c5ce7"},
	{Value: "Personal Care", Icon: "💄", Color: "#a29bfe"},
	{Value: "Others", Icon: fallbackIcon, Color: fallbackColor},
}

var catalogIndex = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, c := range catalog {
		m[c.Value] = i
	}
	return m
}()

// Categories returns a copy of the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog[:])
	return out
}

// LookupCategory finds a catalog entry by its label.
func LookupCategory(label string) (Category, bool) {
	i, ok := catalogIndex[label]
	if !ok {
		return Category{}, false
	}
	return catalog[i], true
}

// CategoryStyle returns the icon and color for a label, falling back to the
// "Others" styling for labels outside the catalog.
func CategoryStyle(label string) Category {
	if c, ok := LookupCategory(label); ok {
		return c
	}
	return Category{Value: label, Icon: fallbackIcon, Color: fallbackColor}
}
