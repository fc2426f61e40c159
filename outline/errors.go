package outline

import (
	"errors"
	"fmt"
)

// ErrStructure marks an outline graph that does not conform to the outline
// schema, or whose pointer structure cannot be trusted (cycles, shared
// nodes). Callers needing fidelity should enable strict mode and treat any
// wrapped ErrStructure as "this outline is corrupt".
var ErrStructure = errors.New("malformed outline structure")

func structuralf(format string, args ...interface{}) error {
	args = append([]interface{}{ErrStructure}, args...)
	return fmt.Errorf("%w: "+format, args...)
}
