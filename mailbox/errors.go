package mailbox

import (
	"errors"
	"fmt"
	"strings"

	"lilmail/models"
)

// KindIncompleteDraft is the only validation failure the mailbox can report
const KindIncompleteDraft = "incomplete draft"

var (
	// ErrIncompleteDraft matches any ValidationError raised by SendDraft
	ErrIncompleteDraft = errors.New(KindIncompleteDraft)
	// ErrUnknownField is returned by UpdateDraft for a field outside to/subject/body
	ErrUnknownField = errors.New("unknown draft field")
)

// ValidationError reports a draft that cannot be sent yet.
// The state is left untouched and compose mode stays active.
type ValidationError struct {
	Kind    string
	Missing []models.DraftField
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Kind
	}
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: missing %s", e.Kind, strings.Join(names, ", "))
}

// Is lets errors.Is(err, ErrIncompleteDraft) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrIncompleteDraft && e.Kind == KindIncompleteDraft
}
