package domain

import (
	"errors"
	"fmt"
)

// ErrProtocol is matched by every ProtocolError.
var ErrProtocol = errors.New("instruction protocol violation")

// ErrRootDestroyed is returned when a destroyed root is refreshed or destroyed again.
var ErrRootDestroyed = errors.New("root view destroyed")

// ErrViewDepth is returned when views nest deeper than the engine allows,
// typically because a component keeps rendering itself.
var ErrViewDepth = errors.New("view tree too deep")

// ErrUnknownBlueprint is returned when a named view cannot be found.
var ErrUnknownBlueprint = errors.New("unknown blueprint")

// ProtocolError reports a misuse of the instruction set, such as a container refresh end
// without a matching start. It is a programming error and aborts the pass.
type ProtocolError struct {
	Instruction string
	Reason      string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Instruction, e.Reason)
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

// TemplateError wraps a failure raised while a view's template was running.
type TemplateError struct {
	View string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template of view '%s' failed: %s", e.View, e.Err.Error())
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
