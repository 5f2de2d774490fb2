package formaterror

import "strings"

// FormatError maps a raw store error string to user-facing messages,
// keyed the same way model Validate results are.
func FormatError(errString string) map[string]string {
	errorMessages := make(map[string]string)
	lowered := strings.ToLower(errString)

	if IsUniqueViolationText(lowered) {
		switch {
		case strings.Contains(lowered, "username"):
			errorMessages["Taken_username"] = "Username already taken"
		case strings.Contains(lowered, "email"):
			errorMessages["Taken_email"] = "Email already taken"
		case strings.Contains(lowered, "likes"):
			errorMessages["Double_like"] = "Already liked"
		default:
			errorMessages["Taken_value"] = "Value already taken"
		}
		return errorMessages
	}
	if strings.Contains(lowered, "hashedpassword") || strings.Contains(lowered, "mismatched hash") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
		return errorMessages
	}

	errorMessages["Incorrect_details"] = "Incorrect Details"
	return errorMessages
}

// IsUniqueViolation reports whether err is a uniqueness violation from
// either backing store. Postgres reports SQLSTATE 23505, sqlite the
// "UNIQUE constraint failed" text; matching on the driver message keeps
// one check working for both.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return IsUniqueViolationText(strings.ToLower(err.Error()))
}

func IsUniqueViolationText(lowered string) bool {
	return strings.Contains(lowered, "unique constraint") ||
		strings.Contains(lowered, "duplicate key") ||
		strings.Contains(lowered, "23505")
}

// IsIntegrityViolation additionally covers NOT NULL and CHECK failures,
// for required-field violations enforced at commit time.
func IsIntegrityViolation(err error) bool {
	if err == nil {
		return false
	}
	lowered := strings.ToLower(err.Error())
	return IsUniqueViolationText(lowered) ||
		strings.Contains(lowered, "check constraint") ||
		strings.Contains(lowered, "not null constraint") ||
		strings.Contains(lowered, "23502") ||
		strings.Contains(lowered, "23514") ||
		strings.Contains(lowered, "foreign key constraint")
}
