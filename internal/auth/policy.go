package auth

import (
	"strings"

	"github.com/hamkuu/fasthtml-admin/internal/model"
)

// AdminPolicy decides whether an authenticated user may reach the admin
// surface. The rule is two case-sensitive string predicates on the stored
// email — grant if it starts with EmailPrefix OR ends with EmailDomain.
//
// This is intentionally NOT email-address parsing or normalization. The
// predicate is a deliberate simplicity trade-off carried over from the
// original deployment ("hamkuu" accounts plus the company domain); tightening
// it is a product decision, not a bug fix.
type AdminPolicy struct {
	EmailPrefix string
	EmailDomain string
}

// Allows reports whether user may access admin-only routes.
//
// An empty predicate never matches: strings.HasPrefix(x, "") is true for
// every x, so an unset prefix must not silently grant everyone access.
func (p AdminPolicy) Allows(user *model.User) bool {
	if user == nil {
		return false
	}
	if p.EmailPrefix != "" && strings.HasPrefix(user.Email, p.EmailPrefix) {
		return true
	}
	if p.EmailDomain != "" && strings.HasSuffix(user.Email, p.EmailDomain) {
		return true
	}
	return false
}
