package validate

// Predicate checks a single string field value.
type Predicate func(value string) Result

// FieldErrors maps field names to the first failure message for that field.
type FieldErrors map[string]string

// Form applies an ordered list of predicates per field, short-circuiting on
// the first failure within each field. It returns the per-field messages and
// an overall validity flag.
func Form(fields map[string]string, rules map[string][]Predicate) (FieldErrors, bool) {
	errs := make(FieldErrors)
	for name, preds := range rules {
		value := fields[name]
		for _, pred := range preds {
			if res := pred(value); !res.OK {
				errs[name] = res.Message
				break
			}
		}
	}
	return errs, len(errs) == 0
}

// RegisterRules covers the registration form.
func RegisterRules() map[string][]Predicate {
	return map[string][]Predicate{
		"name":     {Name},
		"email":    {Email},
		"password": {Password},
		"age":      {Age},
	}
}

// LoginRules only requires the password to be present; its shape was checked
// at registration.
func LoginRules() map[string][]Predicate {
	return map[string][]Predicate{
		"email":    {Email},
		"password": {Required("password is required")},
	}
}

// AppointmentRules covers the create/edit appointment form. The date field is
// an RFC 3339 timestamp.
func AppointmentRules() map[string][]Predicate {
	return map[string][]Predicate{
		"title":       {Title},
		"date":        {AppointmentDate},
		"description": {Description},
	}
}

// ProfileRules covers profile updates; phone is validated only when supplied.
func ProfileRules(fields map[string]string) map[string][]Predicate {
	rules := map[string][]Predicate{
		"name":  {Name},
		"email": {Email},
		"age":   {Age},
	}
	if fields["phone"] != "" {
		rules["phone"] = []Predicate{Phone}
	}
	return rules
}

// PasswordChangeRules covers the change-password form, including the
// cross-field confirmation check.
func PasswordChangeRules(fields map[string]string) map[string][]Predicate {
	return map[string][]Predicate{
		"currentPassword": {Required("current password is required")},
		"newPassword":     {Password},
		"confirmPassword": {
			Required("password confirmation is required"),
			func(value string) Result {
				if value != fields["newPassword"] {
					return fail("passwords do not match")
				}
				return ok()
			},
		},
	}
}
