// Package scrub removes credentials from datasource strings, both in place
// before a project file is committed and on the fly for report output.
package scrub

import (
	"regexp"
	"strings"

	"github.com/mvrdal/qproj/internal/xmltree"
)

const mask = "[PASSWORD_REMOVED]"

var (
	passwordKV = regexp.MustCompile(`(?i)(password\s*=\s*['"]?)([^'"\s]+)(['"]?)`)
	pwdKV      = regexp.MustCompile(`(?i)(pwd\s*=\s*['"]?)([^'"\s]+)(['"]?)`)
	uriCreds   = regexp.MustCompile(`(://[^:@]+:)([^@]+)(@)`)
	pgPassword = regexp.MustCompile(`(?i)(\spassword=)[^\s]*`)
)

// Sanitize masks password material in a datasource string. Handles
// key=value connection strings (password=, pwd=, quoted or not) and
// user:pass@host URIs.
func Sanitize(datasource string) string {
	if datasource == "" {
		return datasource
	}
	s := passwordKV.ReplaceAllString(datasource, "${1}"+mask+"${3}")
	s = pwdKV.ReplaceAllString(s, "${1}"+mask+"${3}")
	s = uriCreds.ReplaceAllString(s, "${1}"+mask+"${3}")
	s = pgPassword.ReplaceAllString(s, "${1}"+mask)
	return s
}

// RemovePasswords blanks the password token of every datasource element in
// the tree, wherever it appears, and returns how many were changed. The
// password value itself (including surrounding quotes) is replaced with ''.
func RemovePasswords(root *xmltree.Element) int {
	cleaned := 0
	var walk func(e *xmltree.Element)
	walk = func(e *xmltree.Element) {
		if e.Tag == "datasource" && strings.Contains(e.Text, "password=") {
			if blankPassword(e) {
				cleaned++
			}
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return cleaned
}

func blankPassword(e *xmltree.Element) bool {
	idx := strings.Index(e.Text, "password=")
	rest := e.Text[idx+len("password="):]
	token := rest
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		token = rest[:sp]
	}
	if token == "" || token == "''" {
		return false
	}
	e.Text = strings.ReplaceAll(e.Text, token, "''")
	return true
}
