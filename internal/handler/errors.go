package handler

import "errors"

var (
	errInvalidPage                 = errors.New("page must be a positive int")
	errInvalidSlug                 = errors.New("invalid post slug")
	errInvalidID                   = errors.New("invalid ID")
	errInvalidImage                = errors.New("invalid image upload")
	errTitleAndDescriptionRequired = errors.New("title and description are required")
	errNoPostOnScreen              = errors.New("no post is currently displayed")
)
