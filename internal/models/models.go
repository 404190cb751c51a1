package models

// Priority is the ordinal priority level of an item.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// Color is the ordinal highlight color of an item.
type Color int

const (
	ColorWhite Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorOrange
)

var colorNames = [...]string{"white", "red", "green", "blue", "yellow", "orange"}

// Name returns the display name of the color. Unknown values render as white.
func (c Color) Name() string {
	if c < 0 || int(c) >= len(colorNames) {
		return colorNames[ColorWhite]
	}
	return colorNames[c]
}

// TodoList represents a list of items
type TodoList struct {
	ID    int         `json:"id"`
	Title string      `json:"title"`
	Items []*TodoItem `json:"items"`
}

// TodoItem represents a single entry of a list.
// Tags is a comma-separated free-text field; it is normalized by the tags package.
type TodoItem struct {
	ID        int      `json:"id"`
	ListID    int      `json:"listId"`
	Title     string   `json:"title"`
	Done      bool     `json:"done"`
	Priority  Priority `json:"priority"`
	Color     Color    `json:"color"`
	Tags      string   `json:"tags"`
	Note      string   `json:"note,omitempty"`
	IsDeleted bool     `json:"isDeleted"`
}

// IsNew reports whether the item has not been persisted yet.
func (i *TodoItem) IsNew() bool {
	return i.ID == 0
}

type PriorityLevel struct {
	Name  string   `json:"name"`
	Value Priority `json:"value"`
}

type ColorOption struct {
	Name  string `json:"name"`
	Value Color  `json:"value"`
}

// Snapshot is the full state returned by the remote store on load.
type Snapshot struct {
	Lists          []*TodoList     `json:"lists"`
	PriorityLevels []PriorityLevel `json:"priorityLevels"`
	Colors         []ColorOption   `json:"colors"`
}

// ItemDetails are the fields changed through the details editor.
type ItemDetails struct {
	ListID   int      `json:"listId"`
	Priority Priority `json:"priority"`
	Color    Color    `json:"color"`
	Tags     string   `json:"tags"`
	Note     string   `json:"note"`
}

// DetailsOf returns the current details of an item.
func DetailsOf(item *TodoItem) ItemDetails {
	return ItemDetails{
		ListID:   item.ListID,
		Priority: item.Priority,
		Color:    item.Color,
		Tags:     item.Tags,
		Note:     item.Note,
	}
}

// QuickFields are the fields edited inline (title, done checkbox).
type QuickFields struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// DefaultPriorityLevels is the lookup table the store serves.
func DefaultPriorityLevels() []PriorityLevel {
	return []PriorityLevel{
		{Name: "None", Value: PriorityNone},
		{Name: "Low", Value: PriorityLow},
		{Name: "Medium", Value: PriorityMedium},
		{Name: "High", Value: PriorityHigh},
	}
}

// DefaultColors is the color lookup table the store serves.
func DefaultColors() []ColorOption {
	out := make([]ColorOption, 0, len(colorNames))
	for i, name := range colorNames {
		out = append(out, ColorOption{Name: name, Value: Color(i)})
	}
	return out
}
