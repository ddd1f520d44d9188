package validate

import "regexp"

// Egyptian mobile numbers: optional +20 or 0 prefix, carrier codes 10/11/12/15,
// followed by eight digits.
var egyptianPhone = regexp.MustCompile(`^(\+20|0)?(10|11|12|15)\d{8}$`)

func EgyptianPhone(phone string) bool {
	return egyptianPhone.MatchString(phone)
}
