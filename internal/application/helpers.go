package application

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"tierbot/internal/models"
)

var roleRefPattern = regexp.MustCompile(`^(?:<@&(\d+)>|(\d+))$`)

// validateForm checks field presence and lengths. The tier is parsed separately.
func validateForm(form models.ApplicationForm) error {
	fields := []struct {
		name     string
		value    string
		max      int
		required bool
	}{
		{"game_id", form.GameID, maxGameIDLength, true},
		{"nickname", form.Nickname, maxNicknameLength, true},
		{"clan", form.Clan, maxClanLength, false},
		{"profile_link", form.ProfileLink, maxProfileLinkLength, false},
	}

	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if f.required && v == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidForm, f.name)
		}
		if utf8.RuneCountInString(v) > f.max {
			return fmt.Errorf("%w: %s is longer than %d characters", ErrInvalidForm, f.name, f.max)
		}
	}
	return nil
}

// parseRoleRefs accepts role mentions or bare ids separated by whitespace.
// The keyword "none" yields an empty list.
func parseRoleRefs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, rolesClearKeyword) {
		return []string{}, nil
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(raw) {
		m := roleRefPattern.FindStringSubmatch(token)
		if m == nil {
			return nil, fmt.Errorf("%w: %q is not a role", models.ErrValidation, token)
		}
		id := m[1]
		if id == "" {
			id = m[2]
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func hasAnyRole(have, want []string) bool {
	if len(have) == 0 || len(want) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(want))
	for _, r := range want {
		set[r] = struct{}{}
	}
	for _, r := range have {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}

func spreadsheetURL(id string) string {
	return fmt.Sprintf(spreadsheetURLFormat, id)
}
