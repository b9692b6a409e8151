// Package guard decides who may open which route. Every route maps to one
// required capability in a table and a single function evaluates it.
package guard

import (
	"net/url"
	"sort"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Capability string

const (
	Public        Capability = "public"
	AnonymousOnly Capability = "anonymous_only"
	Authenticated Capability = "authenticated"
	Customer      Capability = "customer"
	ShopOwner     Capability = "shop_owner"
)

type Decision string

const (
	Allow         Decision = "allow"
	Pending       Decision = "pending"
	RedirectLogin Decision = "redirect_login"
	RedirectHome  Decision = "redirect_home"
	Forbidden     Decision = "forbidden"
)

// Rule matches a path exactly, or every path below it when Pattern ends in "/*".
type Rule struct {
	Pattern string
	Require Capability
}

type Result struct {
	Decision Decision   `json:"decision"`
	Require  Capability `json:"require"`
	Location string     `json:"location,omitempty"`
}

type Table struct {
	rules []Rule
}

// NewTable orders rules so the most specific pattern is tried first.
func NewTable(rules ...Rule) *Table {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(strings.TrimSuffix(sorted[i].Pattern, "/*")) > len(strings.TrimSuffix(sorted[j].Pattern, "/*"))
	})
	return &Table{rules: sorted}
}

func match(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// Require returns the capability for path. Unlisted paths are public.
func (t *Table) Require(path string) Capability {
	path = cleanPath(path)
	for _, r := range t.rules {
		if match(r.Pattern, path) {
			return r.Require
		}
	}
	return Public
}

// Home is where a signed in visitor lands.
func Home(role models.Role) string {
	if role.IsShopOwner() {
		return "/shop/dashboard"
	}
	return "/"
}

func loginLocation(path string) string {
	return "/login?next=" + url.QueryEscape(path)
}

func (t *Table) Evaluate(path string, snap session.Snapshot) Result {
	req := t.Require(path)
	res := Result{Decision: Allow, Require: req}
	if req == Public {
		return res
	}
	if snap.State == session.StateUnknown {
		res.Decision = Pending
		return res
	}

	authed := snap.Authenticated()
	role := snap.Role()

	switch req {
	case AnonymousOnly:
		if authed {
			res.Decision, res.Location = RedirectHome, Home(role)
		}
	case Authenticated:
		if !authed {
			res.Decision, res.Location = RedirectLogin, loginLocation(path)
		}
	case Customer, ShopOwner:
		switch {
		case !authed:
			res.Decision, res.Location = RedirectLogin, loginLocation(path)
		case req == Customer && !role.IsCustomer(), req == ShopOwner && !role.IsShopOwner():
			res.Decision = Forbidden
		}
	}
	return res
}

// Pages covers the screens of the web client.
func Pages() *Table {
	return NewTable(
		Rule{"/", Public},
		Rule{"/products/*", Public},
		Rule{"/cart", Public},
		Rule{"/login", AnonymousOnly},
		Rule{"/signup", AnonymousOnly},
		Rule{"/verify-otp", AnonymousOnly},
		Rule{"/forgot-password", AnonymousOnly},
		Rule{"/profile", Authenticated},
		Rule{"/checkout", Customer},
		Rule{"/customer/*", Customer},
		Rule{"/shop/*", ShopOwner},
	)
}

// API covers the local state API served to the render layer.
func API() *Table {
	return NewTable(
		Rule{"/api/v1/cart/*", Public},
		Rule{"/api/v1/catalog/*", Public},
		Rule{"/api/v1/routes/*", Public},
		Rule{"/api/v1/notices", Public},
		Rule{"/api/v1/session/*", Public},
		Rule{"/api/v1/session/profile", Authenticated},
		Rule{"/api/v1/session/password", Authenticated},
		Rule{"/api/v1/checkout", Customer},
		Rule{"/api/v1/customer/*", Customer},
		Rule{"/api/v1/shop/*", ShopOwner},
	)
}
