package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/roach88/ballast/internal/config"
	"github.com/roach88/ballast/internal/mass"
	"github.com/roach88/ballast/internal/massfile"
	"github.com/roach88/ballast/internal/pointmass"
	"github.com/roach88/ballast/internal/source"
	"github.com/roach88/ballast/internal/units"
)

// classify maps an error to an exit code, an output code and optional
// details.
func classify(err error) (int, string, interface{}) {
	var (
		readErr   *source.ReadError
		parseErr  *massfile.ParseError
		configErr *config.Error
		unitErr   *units.Error
		coreErr   *pointmass.Error
	)
	switch {
	case source.IsNotExist(err):
		return ExitCommandError, ErrCodeNotFound, nil
	case errors.As(err, &readErr):
		return ExitCommandError, ErrCodeReadFailed, map[string]interface{}{"location": readErr.Location}
	case errors.As(err, &parseErr) && parseErr.Code == massfile.ErrCodeBadName:
		return ExitCommandError, ErrCodeWriteFailed, map[string]interface{}{"code": parseErr.Code}
	case errors.As(err, &parseErr):
		return ExitCommandError, ErrCodeParseFailed, map[string]interface{}{"line": parseErr.Line, "code": parseErr.Code}
	case errors.As(err, &configErr):
		if configErr.Code == config.ErrCodeUnits {
			return ExitCommandError, ErrCodeUnits, map[string]interface{}{"code": configErr.Code}
		}
		return ExitCommandError, ErrCodeParseFailed, map[string]interface{}{"code": configErr.Code}
	case errors.As(err, &unitErr):
		return ExitCommandError, ErrCodeUnits, map[string]interface{}{"unit": unitErr.Unit, "code": unitErr.Code}
	case errors.As(err, &coreErr):
		return ExitFailure, ErrCodeSolveFailed, map[string]interface{}{"op": coreErr.Op, "kind": string(coreErr.Kind)}
	}
	return ExitCommandError, ErrCodeGeneric, nil
}

// fail reports err through the formatter and returns the command's error.
func fail(f *OutputFormatter, message string, err error) error {
	exitCode, code, details := classify(err)
	if outErr := f.Error(code, message+": "+err.Error(), details); outErr != nil {
		return outErr
	}
	return WrapExitError(exitCode, message, err)
}

// loadMassesAt reads and parses a mass file at loc.
func loadMassesAt(ctx context.Context, st *source.Store, loc string, opts ...pointmass.Option) (*mass.Masses, massfile.Header, error) {
	data, err := st.Read(ctx, loc)
	if err != nil {
		return nil, massfile.Header{}, err
	}
	return massfile.LoadMasses(bytes.NewReader(data), nil, opts...)
}

// coreOptions builds the observer options shared by commands.
func coreOptions(observers ...pointmass.Observer) []pointmass.Option {
	return []pointmass.Option{pointmass.WithObserver(pointmass.Chain(observers...))}
}
