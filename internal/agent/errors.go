package agent

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMaxToolRounds is the sentinel for a conversation that kept
// requesting tools past the configured round limit.
var ErrMaxToolRounds = errors.New("tool round limit exceeded")

// RoundLimitError reports which limit was hit. It matches
// ErrMaxToolRounds under errors.Is and maps to 502 because the failure
// originates in upstream model behavior, not the client's request.
type RoundLimitError struct {
	Limit int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("conversation exceeded %d tool rounds without a final answer", e.Limit)
}

func (e *RoundLimitError) Is(target error) bool {
	return target == ErrMaxToolRounds
}

// StatusCode implements the HTTP error mapping.
func (e *RoundLimitError) StatusCode() int {
	return http.StatusBadGateway
}
