package domain

import "errors"

var (
	ErrConfigNotFound      = errors.New("portal config file not found")
	ErrPortalNotFound      = errors.New("portal not found in config")
	ErrNoPortalSpecified   = errors.New("no portal specified and no defaultPortal in config")
	ErrNoAccessToken       = errors.New("no access token found for portal")
	ErrEmptyFile           = errors.New("input file contains no data rows")
	ErrMissingColumns      = errors.New("input file is missing required columns")
	ErrUnsupportedFileType = errors.New("unsupported input file type")
)
