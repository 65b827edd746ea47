package domain

import (
	"fmt"
	"strings"
)

// ReadingFrequency is how often a user wants a digest.
type ReadingFrequency string

const (
	FrequencyDaily   ReadingFrequency = "daily"
	FrequencyWeekly  ReadingFrequency = "weekly"
	FrequencyMonthly ReadingFrequency = "monthly"
)

const (
	DefaultLanguage = "en"
	DefaultRegion   = "global"
)

var validFrequencies = map[ReadingFrequency]struct{}{
	FrequencyDaily:   {},
	FrequencyWeekly:  {},
	FrequencyMonthly: {},
}

// Valid reports whether f is one of the known frequencies.
func (f ReadingFrequency) Valid() bool {
	_, ok := validFrequencies[f]
	return ok
}

// Preferences is the personalization record embedded in a User.
type Preferences struct {
	Categories         []string         `json:"categories"`
	Sources            []string         `json:"sources"`
	Language           string           `json:"language"`
	Region             string           `json:"region"`
	ReadingFrequency   ReadingFrequency `json:"readingFrequency"`
	TrendingPreference bool             `json:"trendingPreference"`
}

// DefaultPreferences returns the record every new user starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Categories:         []string{},
		Sources:            []string{},
		Language:           DefaultLanguage,
		Region:             DefaultRegion,
		ReadingFrequency:   FrequencyDaily,
		TrendingPreference: true,
	}
}

// PreferencesPatch is a partial update. A nil field is left untouched.
type PreferencesPatch struct {
	Categories         *[]string         `json:"categories"`
	Sources            *[]string         `json:"sources"`
	Language           *string           `json:"language"`
	Region             *string           `json:"region"`
	ReadingFrequency   *ReadingFrequency `json:"readingFrequency"`
	TrendingPreference *bool             `json:"trendingPreference"`
}

// IsEmpty reports whether the patch carries no fields.
func (p PreferencesPatch) IsEmpty() bool {
	return p.Categories == nil && p.Sources == nil && p.Language == nil &&
		p.Region == nil && p.ReadingFrequency == nil && p.TrendingPreference == nil
}

// Validate checks the fields present in the patch.
func (p PreferencesPatch) Validate() error {
	if p.ReadingFrequency != nil && !p.ReadingFrequency.Valid() {
		return fmt.Errorf("%w: invalid reading frequency", ErrValidation)
	}
	return nil
}

// Normalized returns a copy with set-valued fields de-duplicated. Blank
// language, region and reading frequency values count as absent, so they
// never overwrite the stored value.
func (p PreferencesPatch) Normalized() PreferencesPatch {
	if p.Language != nil && strings.TrimSpace(*p.Language) == "" {
		p.Language = nil
	}
	if p.Region != nil && strings.TrimSpace(*p.Region) == "" {
		p.Region = nil
	}
	if p.ReadingFrequency != nil && *p.ReadingFrequency == "" {
		p.ReadingFrequency = nil
	}
	if p.Categories != nil {
		c := dedupe(*p.Categories)
		p.Categories = &c
	}
	if p.Sources != nil {
		s := dedupe(*p.Sources)
		p.Sources = &s
	}
	return p
}

// Apply merges patch into p field by field and returns the result.
// p is not modified.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	patch = patch.Normalized()
	out := p
	out.Categories = append([]string{}, p.Categories...)
	out.Sources = append([]string{}, p.Sources...)

	if patch.Categories != nil {
		out.Categories = dedupe(*patch.Categories)
	}
	if patch.Sources != nil {
		out.Sources = dedupe(*patch.Sources)
	}
	if patch.Language != nil {
		out.Language = *patch.Language
	}
	if patch.Region != nil {
		out.Region = *patch.Region
	}
	if patch.ReadingFrequency != nil {
		out.ReadingFrequency = *patch.ReadingFrequency
	}
	if patch.TrendingPreference != nil {
		out.TrendingPreference = *patch.TrendingPreference
	}
	return out
}

// WithDefaults fills any zero-valued field from DefaultPreferences. Used when
// reading documents written before a field existed.
func (p Preferences) WithDefaults() Preferences {
	d := DefaultPreferences()
	if p.Categories == nil {
		p.Categories = d.Categories
	}
	if p.Sources == nil {
		p.Sources = d.Sources
	}
	if p.Language == "" {
		p.Language = d.Language
	}
	if p.Region == "" {
		p.Region = d.Region
	}
	if p.ReadingFrequency == "" {
		p.ReadingFrequency = d.ReadingFrequency
	}
	return p
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
