package scene

import "fmt"

// UnknownSceneError is returned when asked to play a scene that is not registered.
type UnknownSceneError struct {
	Name string
}

func (e *UnknownSceneError) Error() string {
	return fmt.Sprintf("unknown scene %q", e.Name)
}

// UnknownOperationError is returned for a step naming an operation that does not exist.
type UnknownOperationError struct {
	Op   string
	Line int
}

func (e *UnknownOperationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: unknown operation %q", e.Line, e.Op)
	}
	return fmt.Sprintf("unknown operation %q", e.Op)
}
