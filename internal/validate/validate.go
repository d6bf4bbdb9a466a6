package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of a single predicate. Message is set only when the
// value was rejected.
type Result struct {
	OK      bool
	Message string
}

func ok() Result             { return Result{OK: true} }
func fail(msg string) Result { return Result{Message: msg} }

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe        = regexp.MustCompile(`^[a-zA-ZğüşıöçĞÜŞİÖÇ\s]+$`)
	phoneRe       = regexp.MustCompile(`^(\+90|0)?5[0-9]{9}$`)
	phoneStripRe  = regexp.MustCompile(`[\s()-]`)
	upperRe       = regexp.MustCompile(`[A-Z]`)
	lowerRe       = regexp.MustCompile(`[a-z]`)
	digitRe       = regexp.MustCompile(`\d`)
	specialCharRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Title accepts appointment titles of 3 to 100 characters after trimming.
func Title(title string) Result {
	if title == "" {
		return fail("title is required")
	}
	trimmed := strings.TrimSpace(title)
	if len([]rune(trimmed)) < 3 {
		return fail("title must be at least 3 characters")
	}
	if len([]rune(trimmed)) > 100 {
		return fail("title must be at most 100 characters")
	}
	return ok()
}

// Description is optional but capped at 500 characters.
func Description(description string) Result {
	if len([]rune(description)) > 500 {
		return fail("description must be at most 500 characters")
	}
	return ok()
}

// AppointmentDate accepts an RFC 3339 timestamp between now and one year
// from now. The clock is read once per call.
func AppointmentDate(value string) Result {
	return AppointmentDateAt(value, time.Now())
}

// AppointmentDateAt is AppointmentDate with an injectable reference time.
func AppointmentDateAt(value string, now time.Time) Result {
	if value == "" {
		return fail("date is required")
	}
	date, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fail("date must be a valid timestamp")
	}
	if date.Before(now) {
		return fail("date cannot be in the past")
	}
	if date.After(now.AddDate(0, 0, 365)) {
		return fail("date cannot be more than one year ahead")
	}
	return ok()
}

func Email(email string) Result {
	if email == "" {
		return fail("email is required")
	}
	if !emailRe.MatchString(email) {
		return fail("enter a valid email address")
	}
	return ok()
}

func Password(password string) Result {
	if password == "" {
		return fail("password is required")
	}
	if len(password) < 6 {
		return fail("password must be at least 6 characters")
	}
	if len(password) > 50 {
		return fail("password must be at most 50 characters")
	}
	return ok()
}

// Strength classifies a password by how many character classes it uses.
// It is advisory only and never invalidates a password.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
	VeryStrong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	default:
		return "very strong"
	}
}

func PasswordStrength(password string) Strength {
	classes := 0
	for _, re := range []*regexp.Regexp{upperRe, lowerRe, digitRe, specialCharRe} {
		if re.MatchString(password) {
			classes++
		}
	}
	switch {
	case classes < 2:
		return Weak
	case classes < 3:
		return Medium
	case classes < 4:
		return Strong
	default:
		return VeryStrong
	}
}

// Name accepts 2 to 50 characters of letters and whitespace, including
// Turkish letters.
func Name(name string) Result {
	if name == "" {
		return fail("name is required")
	}
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < 2 {
		return fail("name must be at least 2 characters")
	}
	if len([]rune(trimmed)) > 50 {
		return fail("name must be at most 50 characters")
	}
	if !nameRe.MatchString(name) {
		return fail("name may only contain letters")
	}
	return ok()
}

func Age(value string) Result {
	if value == "" {
		return fail("age is required")
	}
	age, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fail("age must be a number")
	}
	if age < 13 {
		return fail("age cannot be less than 13")
	}
	if age > 120 {
		return fail("age cannot be more than 120")
	}
	return ok()
}

// Phone accepts Turkish mobile numbers (05xxxxxxxxx, optionally +90-prefixed)
// after stripping spaces, parentheses and hyphens.
func Phone(phone string) Result {
	if phone == "" {
		return fail("phone number is required")
	}
	clean := phoneStripRe.ReplaceAllString(phone, "")
	if !phoneRe.MatchString(clean) {
		return fail("enter a valid mobile number (05xxxxxxxxx)")
	}
	return ok()
}

// Required rejects empty values with the given message.
func Required(message string) Predicate {
	return func(value string) Result {
		if value == "" {
			return fail(message)
		}
		return ok()
	}
}
