package git

import "strings"

// Footer marks commits made by autoprop.
const Footer = "Updated-by: autoprop"

// FormatCommitMessage builds a Conventional Commit message:
//
//	chore(<scope>): <subject>
//
//	<body>
//
//	Updated-by: autoprop
func FormatCommitMessage(scope, subject, body string) string {
	var sb strings.Builder

	sb.WriteString("chore")
	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(strings.TrimSpace(subject))

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}
