package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done   func(DoneArgs) (Result, error)
	Do     func(DoArgs) (Result, error)
	Pet    func(PetArgs) (Result, error)
	Tip    func() (Result, error)
	Report func(ReportArgs) (Result, error)
	Reset  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeDo:
		if handlers.Do == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Do(*cmd.Do)
	case TypePet:
		if handlers.Pet == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Pet(*cmd.Pet)
	case TypeTip:
		if handlers.Tip == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Tip()
	case TypeReport:
		if handlers.Report == nil {
			return Result{}, missing(cmd.Type)
		}
		args := ReportArgs{}
		if cmd.Report != nil {
			args = *cmd.Report
		}
		return handlers.Report(args)
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Reset()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
