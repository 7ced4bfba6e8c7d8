package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeDone   Type = "done"
	TypeDo     Type = "do"
	TypePet    Type = "pet"
	TypeTip    Type = "tip"
	TypeReport Type = "report"
	TypeReset  Type = "reset"
)

// Names lists the palette commands in display order.
var Names = []Type{TypeDone, TypeDo, TypePet, TypeTip, TypeReport, TypeReset}

type ErrorCode string

const (
	ErrCodeEmptyInput           ErrorCode = "empty_input"
	ErrCodeUnknownCommand       ErrorCode = "unknown_command"
	ErrCodeInvalidArgument      ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing       ErrorCode = "handler_missing"
	ErrCodeConfirmationRequired ErrorCode = "confirmation_required"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type DoneArgs struct {
	TaskID string
}

type DoArgs struct {
	ActionID string
}

type PetArgs struct {
	Name  string
	Breed string
}

type ReportArgs struct {
	Notes string
}

type Command struct {
	Type   Type
	Raw    string
	Done   *DoneArgs
	Do     *DoArgs
	Pet    *PetArgs
	Report *ReportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeDone:
		return parseDone(input, args)
	case TypeDo:
		return parseDo(input, args)
	case TypePet:
		return parsePet(input, args)
	case TypeTip:
		return Command{Type: TypeTip, Raw: input}, nil
	case TypeReport:
		return Command{Type: TypeReport, Raw: input, Report: &ReportArgs{Notes: strings.Join(args, " ")}}, nil
	case TypeReset:
		return parseReset(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires one task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{TaskID: strings.ToLower(args[0])}}, nil
}

func parseDo(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "do requires one action id"}
	}
	return Command{Type: TypeDo, Raw: raw, Do: &DoArgs{ActionID: strings.ToLower(args[0])}}, nil
}

func parsePet(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pet requires a name"}
	}
	return Command{Type: TypePet, Raw: raw, Pet: &PetArgs{Name: args[0], Breed: strings.Join(args[1:], " ")}}, nil
}

func parseReset(raw string, args []string) (Command, error) {
	if len(args) != 1 || strings.ToLower(args[0]) != "confirm" {
		return Command{}, &CommandError{Code: ErrCodeConfirmationRequired, Message: "type /reset confirm to erase the pet and all progress"}
	}
	return Command{Type: TypeReset, Raw: raw}, nil
}
