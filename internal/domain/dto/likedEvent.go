package dto

import (
	"fmt"
	"strings"
)

// LikedEvent is a snapshot of an event the viewer liked, joined with its food
type LikedEvent struct {
	EventID         string
	Name            string
	Date            string
	StartTime       string
	EndTime         string
	Building        string
	FoodName        string
	FoodDescription string
	DietaryTags     []string
}

// FoodLine describes the food offered at the event, or "" when there is none
func (e LikedEvent) FoodLine() string {
	food := e.FoodName
	if food == "" {
		food = e.FoodDescription
	} else if e.FoodDescription != "" {
		food = fmt.Sprintf("%s (%s)", food, e.FoodDescription)
	}
	if food == "" {
		return ""
	}
	if len(e.DietaryTags) > 0 {
		food = fmt.Sprintf("%s [%s]", food, strings.Join(e.DietaryTags, ", "))
	}
	return food
}
