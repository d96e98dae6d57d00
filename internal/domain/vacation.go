// Package domain contains the core data types for the vacation booking API.
// It is imported by every other internal package (repo, service, handler).
package domain

import (
	"math"
	"strings"
	"time"
)

// Vacation is a bookable trip to a single destination.
// ImageName refers to the stored image file "<ImageName>.jpg".
type Vacation struct {
	ID          int64     `json:"id"`
	Destination string    `json:"destination" validate:"required,max=100"`
	Description string    `json:"description" validate:"required,max=2000"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Price       float64   `json:"price" validate:"gt=0,lte=1000000,cents"`
	ImageName   string    `json:"imageName" validate:"required,max=255,imagename"`
}

// VacationListItem is a Vacation as seen by one user in the paged listing.
type VacationListItem struct {
	Vacation
	// Followed is true when the requesting user follows this vacation.
	Followed bool
	// Followers is the number of users following this vacation.
	Followers int64
}

// VacationPage is one page of the vacation listing.
// TotalCount counts every vacation in the store, not just this page.
type VacationPage struct {
	Vacations  []VacationListItem
	Page       int
	PageSize   int
	TotalCount int64
}

// ValidPrice reports whether p has at most two decimal places, the
// precision the store keeps.
func ValidPrice(p float64) bool {
	cents := p * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// ValidImageName reports whether name is safe to use as an image file stem.
// Path separators and leading dots are rejected so a name can never escape
// the image directory.
func ValidImageName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
