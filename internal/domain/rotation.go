package domain

import "strings"

// RotationCategory classifies a product by how fast its stock turns over.
type RotationCategory string

const (
	RotationNew        RotationCategory = "NEW"
	RotationNewNoSales RotationCategory = "NEW_NO_SALES"
	RotationNewSlow    RotationCategory = "NEW_SLOW"
	RotationNewSelling RotationCategory = "NEW_SELLING"
	RotationVeryFast   RotationCategory = "VERY_FAST"
	RotationFast       RotationCategory = "FAST"
	RotationNormal     RotationCategory = "NORMAL"
	RotationSlow       RotationCategory = "SLOW"
	RotationVerySlow   RotationCategory = "VERY_SLOW"
	RotationDead       RotationCategory = "DEAD"
)

// RotationCategories lists every category in display order. The classifier
// assigns each product to exactly one of these.
var RotationCategories = []RotationCategory{
	RotationNew,
	RotationNewNoSales,
	RotationNewSlow,
	RotationNewSelling,
	RotationVeryFast,
	RotationFast,
	RotationNormal,
	RotationSlow,
	RotationVerySlow,
	RotationDead,
}

var rotationLabels = map[RotationCategory]string{
	RotationNew:        "New",
	RotationNewNoSales: "New, no sales yet",
	RotationNewSlow:    "New, selling slowly",
	RotationNewSelling: "New, selling",
	RotationVeryFast:   "Very fast rotation",
	RotationFast:       "Fast rotation",
	RotationNormal:     "Normal rotation",
	RotationSlow:       "Slow rotation",
	RotationVerySlow:   "Very slow rotation",
	RotationDead:       "Dead stock",
}

// Label returns a human-readable label for a rotation category.
func (c RotationCategory) Label() string {
	if label, ok := rotationLabels[c]; ok {
		return label
	}

	return string(c)
}

// ParseRotationCategory returns the category for a given name (case-insensitive).
func ParseRotationCategory(name string) (RotationCategory, bool) {
	upper := RotationCategory(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := rotationLabels[upper]

	return upper, ok
}

// ProposalStatus describes where current stock sits relative to the
// recommended minimum.
type ProposalStatus string

const (
	StatusBelow   ProposalStatus = "BELOW"
	StatusOK      ProposalStatus = "OK"
	StatusSurplus ProposalStatus = "SURPLUS"
)
