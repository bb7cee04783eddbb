// Package redact removes personal data from log messages before they leave
// the process.
package redact

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	// Redaction is the value written in place of any redacted field
	Redaction = "***"
)

var (
	// DefaultPIIFields lists the user attributes that should never be logged
	DefaultPIIFields = []string{"name", "email", "phone", "ssn", "password"}
)

type (
	// Writer forwards JSON log lines to out after replacing the value of
	// every configured field with Redaction.
	Writer struct {
		out    io.Writer
		fields *regexp.Regexp
	}
)

// FilterDatum replaces the value of every `field=value<separator>` pair
// found in message with redaction.
func FilterDatum(fields []string, redaction, message, separator string) string {
	for _, f := range fields {
		re := regexp.MustCompile(fmt.Sprintf("(%v)=(.*?)%v", regexp.QuoteMeta(f), regexp.QuoteMeta(separator)))
		message = re.ReplaceAllString(message, fmt.Sprintf("${1}=%v%v", strings.ReplaceAll(redaction, "$", "$$"), separator))
	}
	return message
}

// NewWriter returns a Writer that redacts fields before writing to out.
//
// If fields is empty, the writer is a passthrough.
func NewWriter(out io.Writer, fields []string) *Writer {
	w := &Writer{out: out}
	var quoted []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) == 0 {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	if len(quoted) > 0 {
		w.fields = regexp.MustCompile(fmt.Sprintf(`"(%v)"(\s*):(\s*)"(?:[^"\\]|\\.)*"`, strings.Join(quoted, "|")))
	}
	return w
}

// Write implements io.Writer, it always reports len(p) bytes written
// when the underlying writer succeeds, even if the redacted line is
// shorter or longer than the input.
func (w *Writer) Write(p []byte) (int, error) {
	if w.fields == nil {
		return w.out.Write(p)
	}
	_, err := w.out.Write(w.fields.ReplaceAll(p, []byte(`"${1}"${2}:${3}"`+Redaction+`"`)))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
