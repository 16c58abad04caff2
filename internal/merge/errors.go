package merge

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/statloom/statloom/internal/domain/meta"
)

// ErrMandatoryField reports a structurally required field that no
// contributing source populated. It is fatal to the merge group that raised
// it; the orchestrator drops the group rather than inventing a placeholder.
var ErrMandatoryField = crerr.New("mandatory field empty in every source")

func mandatoryFieldErr(kind meta.Kind, field string) error {
	return crerr.Wrapf(ErrMandatoryField, "%s.%s", kind, field)
}
