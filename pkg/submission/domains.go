package submission

import (
	"slices"
	"strings"
)

// normalizeDomains lowercases and trims a list or comma separated string of domains.
func normalizeDomains(v any) []string {
	var out []string
	for _, d := range stringList(v) {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// emailDomain returns the lowercased part after the last @.
func emailDomain(email string) (string, bool) {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:])), true
}

// domainLists reads the allow and deny lists from the parameters. Two list
// parameters are (allowed, disallowed); otherwise every parameter is an
// allowed domain.
func domainLists(args Args) (allowed, disallowed []string) {
	values := args.Values(0)
	hasList := false
	for _, v := range values {
		if _, ok := asList(v); ok {
			hasList = true
			break
		}
	}
	if !hasList {
		for _, v := range values {
			allowed = append(allowed, normalizeDomains(v)...)
		}
		return allowed, nil
	}
	if len(values) > 0 {
		allowed = normalizeDomains(values[0])
	}
	if len(values) > 1 {
		disallowed = normalizeDomains(values[1])
	}
	return allowed, disallowed
}

// checkEmailDomains applies the allow list first, then the deny list.
func checkEmailDomains(value any, args Args) error {
	allowed, disallowed := domainLists(args)
	if len(allowed) == 0 && len(disallowed) == 0 {
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return ErrFailed
	}
	domain, ok := emailDomain(s)
	if !ok {
		return ErrFailed
	}

	if len(allowed) > 0 && !slices.Contains(allowed, domain) {
		return Failf("The :attribute must use one of the allowed email domains: %s.", strings.Join(allowed, ", "))
	}
	if slices.Contains(disallowed, domain) {
		return Failf("The :attribute must not use the email domain %s.", domain)
	}
	return nil
}
