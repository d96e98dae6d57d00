package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// The types in this file are the JSON shapes of the API as documented in
// spec/openapi.yaml. They are kept apart from the domain types so the wire
// format can change without touching business logic.

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Date is a timestamp that also accepts a plain "YYYY-MM-DD" date on input,
// which is what HTML date pickers submit. It is always written as RFC 3339.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339 date-times, bare dates, or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	d.Time = t
	return nil
}

// Vacation is the API representation of a vacation.
type Vacation struct {
	Id          int64   `json:"id"`
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	StartDate   Date    `json:"startDate"`
	EndDate     Date    `json:"endDate"`
	Price       float64 `json:"price"`
	ImageName   string  `json:"imageName"`
}

// VacationInput is the body of POST /api/vacations and PUT /api/vacations/{id}.
// Id is optional on create and ignored on update (the path wins).
type VacationInput struct {
	Id          int64   `json:"id,omitempty"`
	Destination string  `json:"destination"`
	Description string  `json:"description"`
	StartDate   Date    `json:"startDate"`
	EndDate     Date    `json:"endDate"`
	Price       float64 `json:"price"`
	ImageName   string  `json:"imageName"`
}

// VacationListItem is a Vacation as seen by the requesting user.
type VacationListItem struct {
	Vacation
	Followed  bool  `json:"followed"`
	Followers int64 `json:"followers"`
}

// VacationPage is the body of GET /api/vacations.
type VacationPage struct {
	Vacations  []VacationListItem `json:"vacations"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalCount int64              `json:"totalCount"`
}

// FollowerReportRow is one row of GET /api/followings/report.
type FollowerReportRow struct {
	VacationId  int64  `json:"vacationId"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Followers   int64  `json:"followers"`
}

// SignUpRequest is the body of POST /api/auth/signup.
type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignInRequest is the body of POST /api/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// CurrentUser is the body of GET /api/auth/.
type CurrentUser struct {
	UserId    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// IsAdminResponse is the body of GET /api/auth/isadmin.
type IsAdminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// ImageCreated is the body of POST /api/images.
type ImageCreated struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// --- mapping helpers --------------------------------------------------------

func vacationToResponse(v domain.Vacation) Vacation {
	return Vacation{
		Id:          v.ID,
		Destination: v.Destination,
		Description: v.Description,
		StartDate:   Date{v.StartDate},
		EndDate:     Date{v.EndDate},
		Price:       v.Price,
		ImageName:   v.ImageName,
	}
}

func vacationsToResponse(vs []domain.Vacation) []Vacation {
	out := make([]Vacation, len(vs))
	for i, v := range vs {
		out[i] = vacationToResponse(v)
	}
	return out
}

func inputToVacation(in VacationInput) domain.Vacation {
	return domain.Vacation{
		ID:          in.Id,
		Destination: in.Destination,
		Description: in.Description,
		StartDate:   in.StartDate.Time,
		EndDate:     in.EndDate.Time,
		Price:       in.Price,
		ImageName:   in.ImageName,
	}
}

func pageToResponse(p domain.VacationPage) VacationPage {
	items := make([]VacationListItem, len(p.Vacations))
	for i, it := range p.Vacations {
		items[i] = VacationListItem{
			Vacation:  vacationToResponse(it.Vacation),
			Followed:  it.Followed,
			Followers: it.Followers,
		}
	}
	return VacationPage{
		Vacations:  items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
	}
}
