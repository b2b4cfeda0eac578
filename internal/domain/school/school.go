package school

import (
	"regexp"
	"strings"

	"github.com/schoolerp/backend/internal/domain/shared"
)

var schoolCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// School is the tenant root of the system. Every other aggregate carries its
// ID as SchoolID. The short Code is embedded in human-readable identifiers
// such as fee receipt numbers.
type School struct {
	shared.BaseAggregateRoot
	Code     string `json:"code"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// NewSchool creates a new school
func NewSchool(code, name string) (*School, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !schoolCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_SCHOOL_CODE", "School code must be 2-10 uppercase letters or digits")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_SCHOOL_NAME", "School name cannot be empty")
	}

	return &School{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		IsActive:          true,
	}, nil
}

// Deactivate marks the school inactive
func (s *School) Deactivate() {
	s.IsActive = false
	s.IncrementVersion()
}
