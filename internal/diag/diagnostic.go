package diag

import (
	"wals/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Category Category
	Rule     string // id правила каталога; пусто для встроенных проверок
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Category: code.Category(),
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Ident returns the rule id for catalogue diagnostics and the code id otherwise.
func (d Diagnostic) Ident() string {
	if d.Rule != "" {
		return d.Rule
	}
	return d.Code.ID()
}
