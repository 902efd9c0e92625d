// Package form holds the draft state behind the create and edit forms.
// Drafts keep raw field text between submissions so a failed submit never
// loses the user's input; payload construction validates required fields and
// parses numeric text up front, refusing submission instead of sending
// garbage.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/erazemk/nadzor/internal/model"
)

// ItemDraft is the editable field set of an item. Price stays text until
// submit.
type ItemDraft struct {
	Name     string
	Price    string
	Category string
}

// SeedItemDraft builds an edit draft from an existing item.
func SeedItemDraft(it model.Item) ItemDraft {
	return ItemDraft{
		Name:     it.Name,
		Price:    strconv.FormatFloat(it.Price, 'f', -1, 64),
		Category: it.Category,
	}
}

// Empty reports whether every field is blank.
func (d ItemDraft) Empty() bool {
	return strings.TrimSpace(d.Name) == "" &&
		strings.TrimSpace(d.Price) == "" &&
		strings.TrimSpace(d.Category) == ""
}

// Payload validates the draft and produces the request body. Name, price and
// category are required; the price must parse to a non-negative number.
func (d ItemDraft) Payload() (model.ItemPayload, error) {
	name := strings.TrimSpace(d.Name)
	category := strings.TrimSpace(d.Category)
	priceText := strings.TrimSpace(d.Price)

	if name == "" {
		return model.ItemPayload{}, fmt.Errorf("name is required")
	}
	if priceText == "" {
		return model.ItemPayload{}, fmt.Errorf("price is required")
	}
	if category == "" {
		return model.ItemPayload{}, fmt.Errorf("category is required")
	}

	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.ItemPayload{}, fmt.Errorf("price %q is not a number", priceText)
	}
	if price < 0 {
		return model.ItemPayload{}, fmt.Errorf("price must not be negative")
	}

	return model.ItemPayload{Name: name, Price: price, Category: category}, nil
}
