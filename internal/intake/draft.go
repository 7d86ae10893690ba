package intake

import (
	"strings"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
)

// Draft field names accepted by EditField.
const (
	FieldFullName = "full_name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldCity     = "city"
)

// Draft is the user-editable copy of the extracted data. Fields hold
// plain strings for editing; empty means "not provided" and goes back
// on the wire as null.
type Draft struct {
	FullName string
	Email    string
	Phone    string
	City     string
	Skills   []string
}

// newDraft copies the extraction into an editable draft. Null fields
// become empty strings and the skill list is deduplicated preserving
// first-seen order.
func newDraft(data *cvmatch.ExtractedData) *Draft {
	return &Draft{
		FullName: deref(data.NomComplet),
		Email:    deref(data.Email),
		Phone:    deref(data.Telephone),
		City:     deref(data.Ville),
		Skills:   dedupe(data.Competences),
	}
}

// AddSkill appends the trimmed skill unless it is empty or already
// present (case-sensitive exact match).
func (d *Draft) AddSkill(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}

	for _, existing := range d.Skills {
		if existing == skill {
			return
		}
	}

	d.Skills = append(d.Skills, skill)
}

// RemoveSkill removes the first exact match. Absent skills are a no-op.
func (d *Draft) RemoveSkill(skill string) {
	for i, existing := range d.Skills {
		if existing == skill {
			d.Skills = append(d.Skills[:i], d.Skills[i+1:]...)
			return
		}
	}
}

// Payload builds the update-data body. Trimmed-empty fields are sent as
// null, never as empty strings.
func (d *Draft) Payload(cvID int) *cvmatch.CVUpdate {
	return &cvmatch.CVUpdate{
		CVID:                 cvID,
		NomComplet:           nilIfEmpty(d.FullName),
		EmailCV:              nilIfEmpty(d.Email),
		TelephoneCV:          nilIfEmpty(d.Phone),
		Ville:                nilIfEmpty(d.City),
		CompetencesExtraites: append([]string(nil), d.Skills...),
	}
}

func dedupe(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))

	for _, skill := range skills {
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		result = append(result, skill)
	}

	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}
