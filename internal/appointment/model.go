package appointment

import (
	"encoding/json"
	"time"
)

// Category is the coded appointment category. Older persisted records carried
// the display label instead of the code; decoding normalizes those once so
// reads never have to branch on both forms.
type Category string

const (
	CategoryHealth    Category = "health"
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryEducation Category = "education"
	CategorySocial    Category = "social"
	CategorySports    Category = "sports"
	CategoryShopping  Category = "shopping"
	CategoryTravel    Category = "travel"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryWork,
	CategoryPersonal,
	CategoryEducation,
	CategorySocial,
	CategorySports,
	CategoryShopping,
	CategoryTravel,
}

// legacyLabels maps the Turkish display labels older records stored in their
// topic field onto category codes.
var legacyLabels = map[string]Category{
	"Sağlık":    CategoryHealth,
	"İş":        CategoryWork,
	"Kişisel":   CategoryPersonal,
	"Eğitim":    CategoryEducation,
	"Sosyal":    CategorySocial,
	"Spor":      CategorySports,
	"Alışveriş": CategoryShopping,
	"Seyahat":   CategoryTravel,
}

// ParseCategory resolves a code or legacy label, defaulting to health.
func ParseCategory(value string) Category {
	for _, c := range Categories {
		if string(c) == value {
			return c
		}
	}
	if c, ok := legacyLabels[value]; ok {
		return c
	}
	return CategoryHealth
}

// Repeat describes how often an appointment recurs.
type Repeat string

const (
	RepeatNone    Repeat = "none"
	RepeatDaily   Repeat = "daily"
	RepeatWeekly  Repeat = "weekly"
	RepeatMonthly Repeat = "monthly"
	RepeatYearly  Repeat = "yearly"
)

// ParseRepeat resolves a repeat code, defaulting to none.
func ParseRepeat(value string) Repeat {
	switch Repeat(value) {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return Repeat(value)
	default:
		return RepeatNone
	}
}

// Appointment is the sole persisted entity. NotificationHandle is the opaque
// scheduler reference for the live reminder, empty when none is active.
type Appointment struct {
	ID                 string
	Title              string
	Category           Category
	Description        string
	Date               time.Time
	Repeat             Repeat
	NotificationHandle string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Draft holds the caller-supplied fields for a new appointment. The caller is
// expected to have run the validation predicates already.
type Draft struct {
	Title       string
	Category    Category
	Description string
	Date        time.Time
	Repeat      Repeat
}

// Patch is a shallow merge onto an existing appointment. Nil fields are left
// untouched; the id can never change.
type Patch struct {
	Title       *string
	Category    *Category
	Description *string
	Date        *time.Time
	Repeat      *Repeat
}

// appointmentJSON is the wire/persistence form. The topic field is accepted on
// decode for records written before categories were coded.
type appointmentJSON struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Category           string    `json:"category,omitempty"`
	Topic              string    `json:"topic,omitempty"`
	Description        string    `json:"description,omitempty"`
	Date               time.Time `json:"date"`
	Repeat             string    `json:"repeat,omitempty"`
	NotificationHandle string    `json:"notificationId,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	repeat := ""
	if a.Repeat != RepeatNone {
		repeat = string(a.Repeat)
	}
	return json.Marshal(appointmentJSON{
		ID:                 a.ID,
		Title:              a.Title,
		Category:           string(a.Category),
		Description:        a.Description,
		Date:               a.Date,
		Repeat:             repeat,
		NotificationHandle: a.NotificationHandle,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	})
}

func (a *Appointment) UnmarshalJSON(data []byte) error {
	var w appointmentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	category := w.Category
	if category == "" {
		category = w.Topic
	}

	*a = Appointment{
		ID:                 w.ID,
		Title:              w.Title,
		Category:           ParseCategory(category),
		Description:        w.Description,
		Date:               w.Date,
		Repeat:             ParseRepeat(w.Repeat),
		NotificationHandle: w.NotificationHandle,
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
	return nil
}
