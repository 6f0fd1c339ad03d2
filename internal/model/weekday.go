package model

// WeekdayOrder fixes Monday-first ordering for weekday aggregates.
// Alphabetical or map-iteration order is meaningless for weekdays, so the
// ordering is enumerated explicitly.
var WeekdayOrder = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var weekdayIndex = func() map[string]int {
	m := make(map[string]int, len(WeekdayOrder))
	for i, d := range WeekdayOrder {
		m[d] = i
	}
	return m
}()

// WeekdayIndex returns the Monday-first position of a weekday name,
// or len(WeekdayOrder) for unknown names so they sort last.
func WeekdayIndex(name string) int {
	if i, ok := weekdayIndex[name]; ok {
		return i
	}
	return len(WeekdayOrder)
}
