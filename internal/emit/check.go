package emit

import (
	"fmt"

	"errtax/internal/diag"
)

// CheckUniqueCodes flags every descriptor whose concatenated code was
// already produced by an earlier leaf. Таксономии с дубликатами кодов
// валидны, поэтому это предупреждения, а не ошибки; строгий режим CLI
// поднимает их сам.
func CheckUniqueCodes(art *Artifact) []diag.Diagnostic {
	type first struct {
		ident string
		span  diag.Note
	}
	seen := make(map[string]first, len(art.Descriptors))
	var out []diag.Diagnostic
	for _, d := range art.Descriptors {
		prev, dup := seen[d.Code]
		if !dup {
			seen[d.Code] = first{
				ident: d.Ident,
				span:  diag.Note{Span: d.Span, Msg: "first use is here"},
			}
			continue
		}
		out = append(out, diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.EmitDuplicateCode,
			Message:  fmt.Sprintf("code %s is already used by variant %s", d.Code, prev.ident),
			Primary:  d.Span,
			Notes:    []diag.Note{prev.span},
		})
	}
	return out
}
