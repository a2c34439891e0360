package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Common initialisms from golint and more.
	for _, w := range []string{"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "MAC", "MB", "QPS", "RAM", "RPC", "SKU", "SLA",
		"SMTP", "SQL", "SSH", "SSO", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS"} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	// The default rules leave "status" unchanged. Suffix rules match
	// "Status" and "OrderStatus" alike.
	rules.AddPlural("tatus", "tatuses")
	rules.AddSingular("tatuses", "tatus")
	return rules
}

// AddAcronym adds a word that pascal renders in upper case.
func AddAcronym(word string) {
	word = strings.ToUpper(word)
	acronyms[word] = struct{}{}
	rules.AddAcronym(word)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

// pascal converts a snake_case or kebab-case name to PascalCase, keeping
// known acronyms upper case.
//
//	user_info => UserInfo
//	user_id   => UserID
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	// Casers are stateful, one per call.
	title := cases.Title(language.English, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			b.WriteString(upper)
			continue
		}
		b.WriteString(title.String(w))
	}
	return b.String()
}

// snake converts a Go identifier to snake_case.
//
//	Username => username
//	UserID   => user_id
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// A word starts at an upper case letter that follows a lower case one
		// ("UserInfo"), or that ends a run of upper case letters and is
		// followed by a lower case one ("HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			prev, next := rune(s[i-1]), rune(s[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				j != i-1 && unicode.IsLower(next) && unicode.IsLetter(prev) {
				j = i
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// plural returns the plural form of an entity name. Names whose plural
// equals the singular get a "Slice" suffix so collection functions never
// collide with single-row ones.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "Slice"
	}
	return p
}

// Receiver returns the receiver name generated methods of typ use.
func Receiver(typ string) string { return receiver(typ) }

// receiver returns the receiver name for methods of typ: the lower-cased
// initials of its words.
//
//	User       => u
//	UpdateUser => uu
//	HTTPClient => hc
func receiver(typ string) string {
	typ = strings.TrimLeft(typ, "[]*0123456789")
	var b strings.Builder
	parts := strings.Split(snake(typ), "_")
	for _, p := range parts {
		if p != "" {
			b.WriteByte(p[0])
		}
	}
	r := b.String()
	if r == "" {
		r = "r"
	}
	if token.IsKeyword(r) || reservedParams[r] {
		r += "r"
	}
	return r
}

// reservedParams are identifiers generated code uses for parameters and
// locals.
var reservedParams = map[string]bool{
	"ctx": true, "db": true, "id": true, "by": true, "err": true, "in": true,
	"row": true, "rows": true, "value": true, "v": true, "offset": true, "limit": true, "p": true,
}
