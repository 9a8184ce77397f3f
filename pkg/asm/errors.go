package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOffsetOutOfBounds      = errors.New("offset out of bounds")
	ErrUndeclaredLabel        = errors.New("undeclared label")
	ErrBranchTargetOutOfRange = errors.New("branch target out of range")
	ErrDuplicateLabel         = errors.New("duplicate label")
	ErrOperandMismatch        = errors.New("operand does not match addressing mode")
)

// OffsetOutOfBoundsError is returned when a statement would write past the
// end of the output buffer.
type OffsetOutOfBoundsError struct {
	Offset uint16
	Width  uint16
	Size   int
}

func (e *OffsetOutOfBoundsError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("%v: negative buffer size %d", ErrOffsetOutOfBounds, e.Size)
	}
	return fmt.Sprintf("%v: %d-byte statement at offset $%04X does not fit in %d bytes",
		ErrOffsetOutOfBounds, e.Width, e.Offset, e.Size)
}

func (e *OffsetOutOfBoundsError) Is(target error) bool { return target == ErrOffsetOutOfBounds }

// UndeclaredLabelError names a label that is referenced but never declared.
type UndeclaredLabelError struct {
	Label string
}

func (e *UndeclaredLabelError) Error() string {
	return fmt.Sprintf("%v '%s'", ErrUndeclaredLabel, e.Label)
}

func (e *UndeclaredLabelError) Is(target error) bool { return target == ErrUndeclaredLabel }

// BranchTargetOutOfRangeError names a label that is too far away for a
// relative branch.
type BranchTargetOutOfRangeError struct {
	Label        string
	Displacement int
}

func (e *BranchTargetOutOfRangeError) Error() string {
	return fmt.Sprintf("%v: '%s' is %d bytes away", ErrBranchTargetOutOfRange, e.Label, e.Displacement)
}

func (e *BranchTargetOutOfRangeError) Is(target error) bool {
	return target == ErrBranchTargetOutOfRange
}

// DuplicateLabelError is returned when a label is declared twice in a block.
type DuplicateLabelError struct {
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("%v '%s'", ErrDuplicateLabel, e.Label)
}

func (e *DuplicateLabelError) Is(target error) bool { return target == ErrDuplicateLabel }

// OperandMismatchError is returned by Inst when the operand has the wrong
// shape for the addressing mode.
type OperandMismatchError struct {
	Instruction string
	Want        string
	Got         string
}

func (e *OperandMismatchError) Error() string {
	return fmt.Sprintf("%v: %s takes a %s operand, got %s", ErrOperandMismatch, e.Instruction, e.Want, e.Got)
}

func (e *OperandMismatchError) Is(target error) bool { return target == ErrOperandMismatch }

// ByteRangeError is returned for an Int operand outside -128..255.
type ByteRangeError struct {
	Value int
}

func (e *ByteRangeError) Error() string {
	return fmt.Sprintf("%d is not a valid byte", e.Value)
}
