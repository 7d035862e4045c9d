// Package companies holds the registry of affiliated group companies. The
// registry is loaded from configuration; matching a company in document text
// lets the batch stamp which group company a fiscal document belongs to.
package companies

import "strings"

// Company is one affiliated group company.
type Company struct {
	Code    string   `mapstructure:"code" json:"code"`
	Name    string   `mapstructure:"name" json:"name"`
	TaxID   string   `mapstructure:"tax_id" json:"tax_id"`
	Aliases []string `mapstructure:"aliases" json:"aliases"`
}

// Registry answers "which group company does this text mention".
type Registry struct {
	companies []Company
}

// NewRegistry builds a registry from the configured company list.
func NewRegistry(companies []Company) *Registry {
	return &Registry{companies: companies}
}

// FindInText returns the first company whose tax id, name, or alias appears
// in the text, or nil. Tax ids match exactly; names and aliases match
// case-insensitively.
func (r *Registry) FindInText(text string) *Company {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)
	for i := range r.companies {
		c := &r.companies[i]
		if c.TaxID != "" && strings.Contains(text, c.TaxID) {
			return c
		}
		if c.Name != "" && strings.Contains(upper, strings.ToUpper(c.Name)) {
			return c
		}
		for _, alias := range c.Aliases {
			if alias != "" && strings.Contains(upper, strings.ToUpper(alias)) {
				return c
			}
		}
	}
	return nil
}

// ByCode returns the company with the given code, or nil.
func (r *Registry) ByCode(code string) *Company {
	for i := range r.companies {
		if r.companies[i].Code == code {
			return &r.companies[i]
		}
	}
	return nil
}

// Len returns how many companies are registered.
func (r *Registry) Len() int {
	return len(r.companies)
}
