package jsmodel

// SingleIssue wraps one root-level issue as an error.
func SingleIssue(code, msg, hint string) error {
	return Issues{Issue{Path: "/", Code: code, Message: msg, Hint: hint}}
}
