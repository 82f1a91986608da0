// Package app ties the fetch, validation, filter/sort and render layers
// together. It owns the UI-facing state but no UI code.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/GeekNeuron/OpenPos/internal/clients/positionapi"
	"github.com/GeekNeuron/OpenPos/internal/domain"
	"github.com/GeekNeuron/OpenPos/internal/validation"
)

// ErrAllInvalid is matched (via errors.Is) when a non-empty response had no
// valid position at all.
var ErrAllInvalid = errors.New("no position passed validation")

// AllInvalidError carries the details behind ErrAllInvalid
type AllInvalidError struct {
	Total  int
	Errors []string
}

func (e *AllInvalidError) Error() string {
	return fmt.Sprintf("all %d positions failed validation", e.Total)
}

// Is makes errors.Is(err, ErrAllInvalid) succeed
func (e *AllInvalidError) Is(target error) bool {
	return target == ErrAllInvalid
}

// Fetcher returns raw position records. *positionapi.Client satisfies it.
type Fetcher interface {
	FetchPositions(ctx context.Context) ([]any, error)
}

// LoadResult is the outcome of one successful fetch-and-validate pass
type LoadResult struct {
	Positions []domain.Position
	Total     int // Raw records received
	Invalid   int // Raw records rejected
	Errors    []string
}

// Partial reports whether some records were dropped
func (r LoadResult) Partial() bool {
	return r.Invalid > 0
}

// Load fetches and validates positions. Fetch errors are returned untouched;
// validation problems only fail the load when nothing at all was accepted.
func Load(ctx context.Context, f Fetcher, log zerolog.Logger) (LoadResult, error) {
	raw, err := f.FetchPositions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch positions")
		return LoadResult{}, err
	}

	res := validation.ValidateMany(raw)
	if !res.IsValid {
		err := fmt.Errorf("invalid positions payload: %v", res.Errors)
		log.Error().Err(err).Msg("Failed to validate positions")
		return LoadResult{}, err
	}

	out := LoadResult{
		Positions: res.ValidatedPositions,
		Total:     len(raw),
		Invalid:   len(raw) - len(res.ValidatedPositions),
		Errors:    res.Errors,
	}

	for _, msg := range res.Errors {
		log.Warn().Str("validation", msg).Msg("Position rejected")
	}

	if out.Total > 0 && len(out.Positions) == 0 {
		err := &AllInvalidError{Total: out.Total, Errors: res.Errors}
		log.Error().Err(err).Msg("No valid positions in response")
		return out, err
	}

	log.Info().
		Int("total", out.Total).
		Int("accepted", len(out.Positions)).
		Int("rejected", out.Invalid).
		Msg("Positions loaded")

	return out, nil
}

// MessageKey maps a load error to a translation key and its placeholder values
func MessageKey(err error) (string, map[string]string) {
	var (
		allInvalid *AllInvalidError
		clientErr  *positionapi.ClientError
		exhausted  *positionapi.ExhaustedRetriesError
		serverErr  *positionapi.ServerError
		networkErr *positionapi.NetworkError
		malformed  *positionapi.MalformedResponseError
	)

	switch {
	case errors.As(err, &allInvalid):
		return "error.allInvalid", map[string]string{"total": strconv.Itoa(allInvalid.Total)}
	case errors.As(err, &clientErr):
		switch clientErr.Kind() {
		case positionapi.KindUnauthorized:
			return "error.unauthorized", nil
		case positionapi.KindNotFound:
			return "error.notFound", nil
		default:
			return "error.client", map[string]string{"status": strconv.Itoa(clientErr.Status)}
		}
	}

	attempts := "1"
	if errors.As(err, &exhausted) {
		attempts = strconv.Itoa(exhausted.Attempts)
	}

	switch {
	case errors.As(err, &malformed):
		return "error.malformed", nil
	case errors.As(err, &serverErr):
		return "error.server", map[string]string{"attempts": attempts}
	case errors.As(err, &networkErr):
		return "error.network", map[string]string{"attempts": attempts}
	case err == nil:
		return "", nil
	default:
		return "error.unknown", map[string]string{"error": err.Error()}
	}
}
