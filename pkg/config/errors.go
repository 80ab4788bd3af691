package config

import "errors"

// ErrParsingConfig is returned when environment variables cannot be parsed
// into the requested config struct. Use errors.Is() to check.
var ErrParsingConfig = errors.New("failed to parse environment variables into config")
