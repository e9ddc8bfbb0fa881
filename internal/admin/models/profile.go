package models

import "time"

type Education struct {
	Level         string  `json:"level,omitempty"`
	Institution   string  `json:"institution,omitempty"`
	Board         string  `json:"board,omitempty"`
	YearOfPassing int     `json:"yearOfPassing,omitempty"`
	Percentage    float64 `json:"percentage,omitempty"`
}

type Experience struct {
	JobTitle    string `json:"jobTitle,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type JobPreferences struct {
	JobType         string       `json:"jobType,omitempty"`
	WorkTiming      string       `json:"workTiming,omitempty"`
	WillingToTravel *bool        `json:"willingToTravel,omitempty"`
	SalaryRange     *SalaryRange `json:"salaryRange,omitempty"`
}

type Documents struct {
	Aadhaar        *Link `json:"aadhaar,omitempty"`
	DrivingLicense *Link `json:"drivingLicense,omitempty"`
}

// ProfileDetail is the full user document shown when drilling into a
// jobseeker or an applicant.
type ProfileDetail struct {
	ID          string     `json:"_id"`
	FullName    string     `json:"fullName,omitempty"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Age         int        `json:"age,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	UserType    string     `json:"userType,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsVerified  bool       `json:"isVerified"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`

	Address  string    `json:"address,omitempty"`
	City     string    `json:"city,omitempty"`
	Location *Location `json:"location,omitempty"`

	Skills            []string        `json:"skills,omitempty"`
	Languages         []string        `json:"languages,omitempty"`
	Education         []Education     `json:"education,omitempty"`
	Experience        []Experience    `json:"experience,omitempty"`
	YearsOfExperience int             `json:"yearsOfExperience,omitempty"`
	Availability      string          `json:"availability,omitempty"`
	JobPreferences    *JobPreferences `json:"jobPreferences,omitempty"`
	Documents         *Documents      `json:"documents,omitempty"`
	Resume            *Link           `json:"resume,omitempty"`
}

// Place renders "city, state" when both are known, else the plain city.
func (p ProfileDetail) Place() string {
	if p.Location != nil && p.Location.City != "" && p.Location.State != "" {
		return p.Location.City + ", " + p.Location.State
	}
	return p.City
}
